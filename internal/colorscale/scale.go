// Package colorscale maps numeric values onto an ordered list of colors.
//
// A Scale behaves like a continuous color scale from a charting library:
// the domain [min, max] is spread evenly over the color stops, values in
// between are blended in RGB, and values outside the domain clamp to the
// nearest end. Values that are not numbers get the NoData color.
package colorscale

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// NoData is returned for values that cannot be placed on the scale.
const NoData = "#cccccc"

// ErrUnknownColor is returned when a color stop is neither hex nor a CSS name.
var ErrUnknownColor = errors.New("unknown color")

// Scale is a continuous color scale. The zero value is not usable, build one with New.
type Scale struct {
	stops  []colorful.Color
	min    float64
	max    float64
	noData colorful.Color
}

// New parses the color stops and returns a scale over the domain [0, 1].
func New(colors []string) (*Scale, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: empty color list", ErrUnknownColor)
	}

	stops := make([]colorful.Color, 0, len(colors))
	for _, c := range colors {
		parsed, err := ParseColor(c)
		if err != nil {
			return nil, err
		}
		stops = append(stops, parsed)
	}

	noData, _ := colorful.Hex(NoData)

	return &Scale{stops: stops, min: 0, max: 1, noData: noData}, nil
}

// Must is like New but panics on error.
func Must(colors []string) *Scale {
	s, err := New(colors)
	if err != nil {
		panic(err)
	}
	return s
}

// Domain returns a copy of the scale over [min, max].
func (s *Scale) Domain(min, max float64) *Scale {
	out := *s
	out.min, out.max = min, max
	return &out
}

// Bounds returns the domain of the scale.
func (s *Scale) Bounds() (min, max float64) {
	return s.min, s.max
}

// Color evaluates the scale at v.
func (s *Scale) Color(v float64) colorful.Color {
	if math.IsNaN(v) {
		return s.noData
	}

	t := 1.0
	if s.max != s.min {
		t = (v - s.min) / (s.max - s.min)
	}

	return s.at(t)
}

// Hex evaluates the scale at v and formats the result as #rrggbb.
func (s *Scale) Hex(v float64) string {
	return s.Color(v).Clamped().Hex()
}

// Value evaluates the scale for an arbitrary property value.
// Anything that is not a number yields NoData.
func (s *Scale) Value(v any) string {
	f, ok := Number(v)
	if !ok {
		return s.noData.Hex()
	}
	return s.Hex(f)
}

// at returns the color at position t in [0, 1], clamping outside values.
func (s *Scale) at(t float64) colorful.Color {
	if t <= 0 {
		return s.stops[0]
	}
	last := len(s.stops) - 1
	if t >= 1 || last == 0 {
		return s.stops[last]
	}

	pos := t * float64(last)
	i := int(math.Floor(pos))

	return s.stops[i].BlendRgb(s.stops[i+1], pos-float64(i))
}

// ParseColor accepts #rgb, #rrggbb or a CSS color name.
func ParseColor(c string) (colorful.Color, error) {
	c = strings.ToLower(strings.TrimSpace(c))

	if strings.HasPrefix(c, "#") {
		if len(c) == 4 {
			c = "#" + strings.Repeat(c[1:2], 2) + strings.Repeat(c[2:3], 2) + strings.Repeat(c[3:4], 2)
		}
		// only #rrggbb, colorful.Hex ignores digits past the sixth
		if len(c) != 7 {
			return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, c)
		}
		parsed, err := colorful.Hex(c)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, c)
		}
		return parsed, nil
	}

	named, ok := colornames.Map[c]
	if !ok {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, c)
	}
	parsed, _ := colorful.MakeColor(named)

	return parsed, nil
}

// Number converts a decoded property value to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
