package style

import (
	"github.com/woozymasta/egmsmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// RenderOptions selects the hooks used by Render. Empty fields fall back to the defaults.
type RenderOptions struct {
	Namespace     string
	OnEachFeature string
	PointToLayer  string
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Namespace == "" {
		o.Namespace = DefaultNamespace
	}
	if o.OnEachFeature == "" {
		o.OnEachFeature = TooltipHook
	}
	if o.PointToLayer == "" {
		o.PointToLayer = MarkerHook
	}
	return o
}

// MarkerLayer is the rendered form of a point collection.
type MarkerLayer struct {
	Hideout Hideout        `json:"hideout" yaml:"hideout"`
	Markers []CircleMarker `json:"markers" yaml:"markers"`
	Count   int            `json:"count" yaml:"count"`
}

// Render draws every point feature of fc through the registered hooks, in order.
// Features without a point geometry are skipped.
func Render(fc geo.FeatureCollection, hideout Hideout, opts RenderOptions) (MarkerLayer, error) {
	opts = opts.withDefaults()

	pointToLayer, err := LookupPointToLayer(opts.Namespace, opts.PointToLayer)
	if err != nil {
		return MarkerLayer{}, err
	}
	onEachFeature, err := LookupOnEachFeature(opts.Namespace, opts.OnEachFeature)
	if err != nil {
		return MarkerLayer{}, err
	}

	layer := MarkerLayer{
		Hideout: hideout,
		Markers: make([]CircleMarker, 0, len(fc.Features)),
	}

	skipped := 0
	for _, f := range fc.Features {
		lon, lat, ok := f.LonLat()
		if !ok {
			skipped++
			continue
		}

		marker := pointToLayer(LatLng{Lat: lat, Lng: lon}, f, hideout)
		onEachFeature(f, &marker)
		layer.Markers = append(layer.Markers, marker)
	}
	layer.Count = len(layer.Markers)

	if skipped > 0 {
		log.Debug().
			Int("skipped", skipped).
			Int("rendered", layer.Count).
			Msg("Non-point features skipped")
	}

	return layer, nil
}
