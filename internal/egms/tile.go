// Package egms reads EGMS ground motion measurement tiles.
package egms

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/woozymasta/egmsmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// CSV column names used by the viewer.
const (
	ColPID          = "pid"
	ColEasting      = "easting"
	ColNorthing     = "northing"
	ColMeanVelocity = "mean_velocity"
)

var (
	// ErrPointNotFound is returned when a pid is not part of a tile.
	ErrPointNotFound = errors.New("measurement point not found")

	// ErrMissingColumn is returned for CSV files lacking a required column.
	ErrMissingColumn = errors.New("missing column")
)

var dateColumn = regexp.MustCompile(`^\d{8}$`)

// Point is one measurement point of a tile.
type Point struct {
	PID          string
	Series       []float64 // aligned with Tile.Dates, NaN for gaps
	Easting      float64
	Northing     float64
	Lon          float64
	Lat          float64
	MeanVelocity float64 // NaN when not present
}

// Tile is a parsed tile CSV.
type Tile struct {
	byPID  map[string]int
	Name   string
	Dates  []string
	Points []Point
}

// DateColumns returns the YYYYMMDD columns of a header in ascending order.
func DateColumns(header []string) []string {
	cols := make([]string, 0, len(header))
	for _, h := range header {
		if dateColumn.MatchString(h) {
			cols = append(cols, h)
		}
	}
	sort.Strings(cols)
	return cols
}

// ReadTile parses a tile CSV and reprojects every point with proj.
// Points that cannot be reprojected are logged and skipped.
func ReadTile(r io.Reader, name string, proj *geo.Projector) (*Tile, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("tile %s: read header: %w", name, err)
	}
	// copy, the reader reuses the backing array
	header = append([]string(nil), header...)

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{ColPID, ColEasting, ColNorthing} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("tile %s: %w %q", name, ErrMissingColumn, col)
		}
	}

	dates := DateColumns(header)
	dateIdx := make([]int, len(dates))
	for i, d := range dates {
		dateIdx[i] = index[d]
	}
	velIdx, hasVelocity := index[ColMeanVelocity]

	tile := &Tile{Name: name, Dates: dates, byPID: make(map[string]int)}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tile %s: line %d: %w", name, line, err)
		}

		x, errX := strconv.ParseFloat(strings.TrimSpace(rec[index[ColEasting]]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(rec[index[ColNorthing]]), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("tile %s: line %d: %w", name, line, geo.ErrInvalidCoordinates)
		}

		lon, lat, err := proj.ToLonLat(x, y)
		if err != nil {
			log.Warn().Err(err).
				Str("tile", name).
				Int("line", line).
				Str("pid", rec[index[ColPID]]).
				Msg("Point skipped")
			continue
		}

		p := Point{
			PID:          rec[index[ColPID]],
			Easting:      x,
			Northing:     y,
			Lon:          lon,
			Lat:          lat,
			MeanVelocity: math.NaN(),
			Series:       make([]float64, len(dates)),
		}
		if hasVelocity {
			p.MeanVelocity = parseOrNaN(rec[velIdx])
		}
		for i, col := range dateIdx {
			p.Series[i] = parseOrNaN(rec[col])
		}

		tile.byPID[p.PID] = len(tile.Points)
		tile.Points = append(tile.Points, p)
	}

	return tile, nil
}

// Feature converts a point to a GeoJSON feature tagged with its tile.
// mean_velocity is left out when the CSV had no usable value.
func (t *Tile) Feature(p Point) (geo.Feature, error) {
	props := map[string]any{
		ColPID: p.PID,
		"tile": t.Name,
	}
	if !math.IsNaN(p.MeanVelocity) {
		props[ColMeanVelocity] = p.MeanVelocity
	}
	f, err := geo.NewPointFeature(p.Lon, p.Lat, props)
	if err != nil {
		return geo.Feature{}, fmt.Errorf("tile %s pid %s: %w", t.Name, p.PID, err)
	}
	return f, nil
}

// Lookup finds a point by pid.
func (t *Tile) Lookup(pid string) (Point, bool) {
	i, ok := t.byPID[pid]
	if !ok {
		return Point{}, false
	}
	return t.Points[i], true
}

func parseOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
