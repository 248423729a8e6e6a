// Package style turns GeoJSON point features into colored circle markers.
//
// The two per-feature hooks, BindTooltip and MakeColoredMarker, are
// registered by name in the extension registry and resolved by Render at
// draw time.
package style

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/egmsmap/internal/colorscale"
	"github.com/woozymasta/egmsmap/internal/geo"
)

// ErrInvalidHideout is returned by Hideout.Validate.
var ErrInvalidHideout = errors.New("invalid hideout")

// Property names read by the tooltip.
const (
	PropID           = "pid"
	PropMeanVelocity = "mean_velocity"
)

// LatLng is a marker position.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// CircleOptions mirrors the Leaflet circle marker options the front end passes through.
type CircleOptions struct {
	Stroke      *bool   `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Color       string  `json:"color,omitempty" yaml:"color,omitempty"`
	FillColor   string  `json:"fillColor,omitempty" yaml:"fillColor,omitempty"`
	Radius      float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Weight      float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	FillOpacity float64 `json:"fillOpacity" yaml:"fillOpacity"`
}

// WithFill returns a copy of the options with the fill color replaced.
func (o CircleOptions) WithFill(color string) CircleOptions {
	o.FillColor = color
	return o
}

// Hideout is the per-render bundle passed to every hook.
//
// Preconditions: Min <= Max, ColorScale is non-empty and ColorProp is set.
// The hooks never check them; use Validate when the bundle is built.
type Hideout struct {
	ColorProp     string        `json:"colorProp" yaml:"colorProp"`
	ColorScale    []string      `json:"colorscale" yaml:"colorscale"`
	CircleOptions CircleOptions `json:"circleOptions" yaml:"circleOptions"`
	Min           float64       `json:"min" yaml:"min"`
	Max           float64       `json:"max" yaml:"max"`
}

// Validate checks the hideout preconditions.
func (h Hideout) Validate() error {
	if h.Min > h.Max {
		return fmt.Errorf("%w: min %v greater than max %v", ErrInvalidHideout, h.Min, h.Max)
	}
	if h.ColorProp == "" {
		return fmt.Errorf("%w: colorProp is empty", ErrInvalidHideout)
	}
	if _, err := colorscale.New(h.ColorScale); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHideout, err)
	}
	return nil
}

// TooltipBinder is anything a tooltip can be attached to.
type TooltipBinder interface {
	BindTooltip(content string)
}

// CircleMarker is a renderable point marker.
type CircleMarker struct {
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
	Tooltip    string         `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Options    CircleOptions  `json:"options" yaml:"options"`
	LatLng     LatLng         `json:"latlng" yaml:"latlng"`
}

// BindTooltip implements TooltipBinder.
func (m *CircleMarker) BindTooltip(content string) {
	m.Tooltip = content
}

// BindTooltip labels the layer with "<pid> (<mean_velocity>)".
// Values are inserted verbatim; missing ones print as "undefined".
func BindTooltip(feature geo.Feature, layer TooltipBinder) {
	layer.BindTooltip(TooltipText(feature))
}

// TooltipText formats the tooltip label for a feature.
func TooltipText(feature geo.Feature) string {
	return formatValue(feature.Property(PropID)) + " (" + formatValue(feature.Property(PropMeanVelocity)) + ")"
}

// MakeColoredMarker builds a circle marker at latlng whose fill encodes
// feature.properties[colorProp] on the hideout color scale.
// The hideout options are copied, never modified.
func MakeColoredMarker(latlng LatLng, feature geo.Feature, hideout Hideout) CircleMarker {
	fill := colorscale.NoData
	if scale, err := colorscale.New(hideout.ColorScale); err == nil {
		v, _ := feature.Property(hideout.ColorProp)
		fill = scale.Domain(hideout.Min, hideout.Max).Value(v)
	}

	return CircleMarker{
		LatLng:     latlng,
		Options:    hideout.CircleOptions.WithFill(fill),
		Properties: feature.Properties,
	}
}

// formatValue prints a property the way a browser template literal would.
func formatValue(v any, ok bool) string {
	if !ok {
		return "undefined"
	}

	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case float32:
		return formatNumber(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	s = strings.Replace(s, "e-0", "e-", 1)
	s = strings.Replace(s, "e+0", "e+", 1)
	return s
}
