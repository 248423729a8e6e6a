// Package geo handles GeoJSON structures, geometry predicates and coordinate reprojection.
package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	geom "github.com/peterstace/simplefeatures/geom"
)

var (
	// ErrNoFeatures is returned when a collection has nothing to work with.
	ErrNoFeatures = errors.New("no features")

	// ErrInvalidGeoJSON is returned when a document cannot be decoded.
	ErrInvalidGeoJSON = errors.New("invalid geojson")

	// ErrInvalidCoordinates is returned for NaN or infinite positions.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// FeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature represents a single geographic feature with geometry and properties.
// Properties is the free-form property bag; lookups must tolerate missing keys.
type Feature struct {
	Properties map[string]any `json:"properties"`
	Type       string         `json:"type"`
	Geometry   geom.Geometry  `json:"geometry"`
}

// NewFeatureCollection returns an empty, typed collection.
func NewFeatureCollection(capacity int) FeatureCollection {
	return FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, capacity)}
}

// UnmarshalJSON decodes a feature. A null or absent geometry is left empty.
func (f *Feature) UnmarshalJSON(data []byte) error {
	var raw struct {
		Properties map[string]any  `json:"properties"`
		Type       string          `json:"type"`
		Geometry   json.RawMessage `json:"geometry"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = Feature{Type: raw.Type, Properties: raw.Properties}
	if len(raw.Geometry) == 0 || bytes.Equal(bytes.TrimSpace(raw.Geometry), []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw.Geometry, &f.Geometry)
}

// NewPointFeature builds a Point feature at lon/lat.
func NewPointFeature(lon, lat float64, props map[string]any) (Feature, error) {
	pt, err := NewPoint(lon, lat)
	if err != nil {
		return Feature{}, err
	}
	return Feature{
		Type:       "Feature",
		Geometry:   pt,
		Properties: props,
	}, nil
}

// NewPoint builds a 2D point geometry. NaN and infinite positions are rejected.
func NewPoint(lon, lat float64) (geom.Geometry, error) {
	pt, err := geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: lon, Y: lat},
		Type: geom.DimXY,
	})
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("%w: %w", ErrInvalidCoordinates, err)
	}
	return pt.AsGeometry(), nil
}

// LonLat returns the position of a Point feature.
func (f Feature) LonLat() (lon, lat float64, ok bool) {
	pt, ok := f.Geometry.AsPoint()
	if !ok {
		return 0, 0, false
	}
	xy, ok := pt.XY()
	if !ok {
		return 0, 0, false
	}
	return xy.X, xy.Y, true
}

// Property returns a property value; missing keys and nil bags yield (nil, false).
func (f Feature) Property(name string) (any, bool) {
	if f.Properties == nil {
		return nil, false
	}
	v, ok := f.Properties[name]
	return v, ok
}

// Geometries returns the non-empty geometries of the collection.
func (fc FeatureCollection) Geometries() []geom.Geometry {
	out := make([]geom.Geometry, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry.IsEmpty() {
			continue
		}
		out = append(out, f.Geometry)
	}
	return out
}

// Decode reads a FeatureCollection from r.
func Decode(r io.Reader) (FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return FeatureCollection{}, fmt.Errorf("%w: %w", ErrInvalidGeoJSON, err)
	}
	return fc, nil
}

// Load reads a FeatureCollection from a file.
func Load(path string) (FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return FeatureCollection{}, err
	}
	defer func() { _ = f.Close() }()

	fc, err := Decode(f)
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("%s: %w", path, err)
	}
	return fc, nil
}
