package colorscale

import (
	"bytes"
	"math"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleEndpointsAndMidpoint(t *testing.T) {
	s := Must([]string{"blue", "red"}).Domain(0, 10)

	assert.Equal(t, "#0000ff", s.Hex(0))
	assert.Equal(t, "#ff0000", s.Hex(10))
	assert.Equal(t, "#800080", s.Hex(5))
}

func TestScaleClampsOutsideDomain(t *testing.T) {
	s := Must([]string{"#0000ff", "#ff0000"}).Domain(0, 10)

	assert.Equal(t, s.Hex(0), s.Hex(-3))
	assert.Equal(t, s.Hex(10), s.Hex(42))
}

func TestScaleGrayMidpoint(t *testing.T) {
	s := Must([]string{"#000000", "#ffffff"}).Domain(0, 100)

	assert.Equal(t, "#808080", s.Hex(50))
}

func TestScaleMultipleStops(t *testing.T) {
	s := Must([]string{"red", "yellow", "green", "blue", "purple"}).Domain(-20, 20)

	assert.Equal(t, "#ff0000", s.Hex(-20))
	assert.Equal(t, "#ffff00", s.Hex(-10))
	assert.Equal(t, "#008000", s.Hex(0))
	assert.Equal(t, "#0000ff", s.Hex(10))
	assert.Equal(t, "#800080", s.Hex(20))
	// halfway between red and yellow
	assert.Equal(t, "#ff8000", s.Hex(-15))
}

func TestScaleDegenerateDomain(t *testing.T) {
	s := Must([]string{"black", "white"}).Domain(5, 5)

	assert.Equal(t, "#ffffff", s.Hex(5))
}

func TestScaleSingleStop(t *testing.T) {
	s := Must([]string{"#123456"}).Domain(0, 1)

	assert.Equal(t, "#123456", s.Hex(0.3))
}

func TestScaleNoData(t *testing.T) {
	s := Must([]string{"black", "white"}).Domain(0, 1)

	assert.Equal(t, NoData, s.Hex(math.NaN()))
	assert.Equal(t, NoData, s.Value(nil))
	assert.Equal(t, NoData, s.Value("12"))
	assert.Equal(t, "#ffffff", s.Value(1))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#f00")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", c.Hex())

	c, err = ParseColor(" Purple ")
	require.NoError(t, err)
	assert.Equal(t, "#800080", c.Hex())

	_, err = ParseColor("not-a-color")
	assert.ErrorIs(t, err, ErrUnknownColor)

	_, err = New(nil)
	assert.ErrorIs(t, err, ErrUnknownColor)
}

func TestParseColorRejectsOtherHexLengths(t *testing.T) {
	for _, in := range []string{"#ff000080", "#ff00", "#ff00000", "#f"} {
		_, err := ParseColor(in)
		assert.ErrorIs(t, err, ErrUnknownColor, in)
	}

	_, err := New([]string{"blue", "#ff000080"})
	assert.ErrorIs(t, err, ErrUnknownColor)
}

func TestColorbar(t *testing.T) {
	s := Must([]string{"blue", "red"}).Domain(-20, 20)

	img := s.Colorbar(20, 150)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())

	r, _, b, _ := img.At(10, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), b)

	r, _, b, _ = img.At(10, 149).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0xffff), b)

	var buf bytes.Buffer
	require.NoError(t, s.EncodeColorbar(&buf, 20, 150))

	decoded, err := webp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 150, decoded.Bounds().Dy())
}
