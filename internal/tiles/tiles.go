// Package tiles finds the EGMS data tiles covering an area of interest.
package tiles

import (
	"errors"
	"fmt"
	"sort"

	"github.com/woozymasta/egmsmap/internal/config"
	"github.com/woozymasta/egmsmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// PropTile is the boundary feature property holding the tile name.
const PropTile = "tile"

// ErrUnknownDirection is returned for directions without a boundary file.
var ErrUnknownDirection = errors.New("unknown direction")

// Index holds the tile boundaries of every direction.
type Index struct {
	boundaries map[string]geo.FeatureCollection
}

// New builds an index from already loaded boundaries.
func New(boundaries map[string]geo.FeatureCollection) *Index {
	return &Index{boundaries: boundaries}
}

// Load reads the boundary file of every configured direction.
func Load(directions []config.Direction) (*Index, error) {
	boundaries := make(map[string]geo.FeatureCollection, len(directions))

	for _, d := range directions {
		fc, err := geo.Load(d.Boundary)
		if err != nil {
			return nil, fmt.Errorf("direction %s: %w", d.Name, err)
		}

		log.Debug().
			Str("direction", d.Name).
			Str("path", d.Boundary).
			Int("tiles", len(fc.Features)).
			Msg("Tile boundaries loaded")

		boundaries[d.Name] = fc
	}

	return New(boundaries), nil
}

// Directions lists the indexed directions in name order.
func (i *Index) Directions() []string {
	out := make([]string, 0, len(i.boundaries))
	for name := range i.boundaries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// All returns every boundary tile of direction.
func (i *Index) All(direction string) (geo.FeatureCollection, error) {
	boundary, ok := i.boundaries[direction]
	if !ok {
		return geo.FeatureCollection{}, fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	}
	return boundary, nil
}

// Intersect returns the boundary tiles of direction touching any AOI geometry.
func (i *Index) Intersect(direction string, aoi geo.FeatureCollection) (geo.FeatureCollection, error) {
	boundary, err := i.All(direction)
	if err != nil {
		return geo.FeatureCollection{}, err
	}

	areas := aoi.Geometries()
	if len(areas) == 0 {
		return geo.FeatureCollection{}, geo.ErrNoFeatures
	}

	out := geo.NewFeatureCollection(0)
	for _, f := range boundary.Features {
		if geo.IntersectsAny(f.Geometry, areas) {
			out.Features = append(out.Features, f)
		}
	}

	return out, nil
}

// Names returns the tile names of a boundary collection, deduplicated and sorted.
func Names(fc geo.FeatureCollection) []string {
	seen := make(map[string]bool, len(fc.Features))
	names := make([]string, 0, len(fc.Features))

	for _, f := range fc.Features {
		v, _ := f.Property(PropTile)
		name, ok := v.(string)
		if !ok || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
