package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wroge/wgs84"
)

// WGS84 is the EPSG code used by the web map.
const WGS84 = 4326

// falseOrigin is the projection centre of an azimuthal CRS in both coordinate systems.
type falseOrigin struct {
	x, y     float64
	lon, lat float64
}

// wgs84 has no inverse exactly at the false origin of these projections.
var origins = map[int]falseOrigin{
	3035: {x: 4321000, y: 3210000, lon: 10, lat: 52},
}

// Projector converts source CRS coordinates to WGS84 lon/lat.
type Projector struct {
	transform wgs84.Func
	from      int
}

// ParseEPSG accepts "EPSG:3035", "epsg: 3035" or "3035".
func ParseEPSG(s string) (int, error) {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	s = strings.TrimPrefix(s, "EPSG:")

	code, err := strconv.Atoi(s)
	if err != nil || code <= 0 {
		return 0, fmt.Errorf("invalid EPSG code %q", s)
	}
	return code, nil
}

// NewProjector prepares a transformation from the given EPSG code to WGS84.
func NewProjector(from int) *Projector {
	p := &Projector{from: from}
	if from != WGS84 {
		p.transform = wgs84.EPSG().Transform(from, WGS84)
	}
	return p
}

// ToLonLat reprojects an easting/northing pair.
// Non-finite input or output is an error.
func (p *Projector) ToLonLat(x, y float64) (lon, lat float64, err error) {
	if !finite(x) || !finite(y) {
		return 0, 0, fmt.Errorf("EPSG:%d: %w: %f,%f", p.from, ErrInvalidCoordinates, x, y)
	}
	if p.transform == nil {
		return x, y, nil
	}

	lon, lat, _ = p.transform(x, y, 0)
	if finite(lon) && finite(lat) {
		return lon, lat, nil
	}

	if o, ok := origins[p.from]; ok && x == o.x && y == o.y {
		return o.lon, o.lat, nil
	}
	return 0, 0, fmt.Errorf("EPSG:%d: cannot reproject %f,%f", p.from, x, y)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
