package style

import (
	"strings"
	"testing"

	"github.com/woozymasta/egmsmap/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefaults(t *testing.T) {
	_, err := LookupOnEachFeature(DefaultNamespace, TooltipHook)
	require.NoError(t, err)

	_, err = LookupPointToLayer(DefaultNamespace, MarkerHook)
	require.NoError(t, err)

	_, err = LookupPointToLayer(DefaultNamespace, TooltipHook)
	assert.ErrorIs(t, err, ErrUnknownExtension)

	_, err = LookupOnEachFeature("missing", TooltipHook)
	assert.ErrorIs(t, err, ErrUnknownExtension)
}

func TestRenderUsesRegisteredHooks(t *testing.T) {
	Register("test", Extensions{
		"label": OnEachFeature(func(f geo.Feature, layer TooltipBinder) {
			layer.BindTooltip("custom")
		}),
		MarkerHook: PointToLayer(MakeColoredMarker),
	})

	f, err := geo.NewPointFeature(1, 2, map[string]any{"value": 10.0})
	require.NoError(t, err)

	fc := geo.NewFeatureCollection(1)
	fc.Features = append(fc.Features, f)

	layer, err := Render(fc, testHideout(), RenderOptions{Namespace: "test", OnEachFeature: "label"})
	require.NoError(t, err)
	require.Len(t, layer.Markers, 1)
	assert.Equal(t, "custom", layer.Markers[0].Tooltip)
	assert.Equal(t, "#ff0000", layer.Markers[0].Options.FillColor)
}

func TestRenderSkipsNonPoints(t *testing.T) {
	fc, err := geo.Decode(strings.NewReader(`{
	  "type": "FeatureCollection",
	  "features": [
	    {"type": "Feature", "properties": {"pid": "A1", "mean_velocity": -20, "value": 0},
	     "geometry": {"type": "Point", "coordinates": [-0.5, 53.5]}},
	    {"type": "Feature", "properties": {"pid": "poly"},
	     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}},
	    {"type": "Feature", "properties": {"pid": "B2", "mean_velocity": 3.5, "value": 10},
	     "geometry": {"type": "Point", "coordinates": [1, 2]}}
	  ]
	}`))
	require.NoError(t, err)

	layer, err := Render(fc, testHideout(), RenderOptions{})
	require.NoError(t, err)

	require.Equal(t, 2, layer.Count)
	assert.Equal(t, LatLng{Lat: 53.5, Lng: -0.5}, layer.Markers[0].LatLng)
	assert.Equal(t, "A1 (-20)", layer.Markers[0].Tooltip)
	assert.Equal(t, "#0000ff", layer.Markers[0].Options.FillColor)
	assert.Equal(t, "B2 (3.5)", layer.Markers[1].Tooltip)
	assert.Equal(t, "#ff0000", layer.Markers[1].Options.FillColor)
}
