package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"
)

// IntersectsAny reports whether g intersects at least one of the others.
func IntersectsAny(g geom.Geometry, others []geom.Geometry) bool {
	for _, o := range others {
		if geom.Intersects(g, o) {
			return true
		}
	}
	return false
}

// WithinAny reports whether g lies within at least one of the areas.
func WithinAny(g geom.Geometry, areas []geom.Geometry) (bool, error) {
	for _, a := range areas {
		// cheap envelope reject before the full relate
		if !geom.Intersects(g, a) {
			continue
		}
		ok, err := geom.Within(g, a)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
