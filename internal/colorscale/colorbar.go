package colorscale

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

// Colorbar renders a vertical legend for the scale, max at the top.
func (s *Scale) Colorbar(width, height int) image.Image {
	if width <= 0 {
		width = 20
	}
	if height <= 0 {
		height = 150
	}

	// one pixel wide strip, stretched to the requested width afterwards
	strip := image.NewRGBA(image.Rect(0, 0, 1, height))
	for y := 0; y < height; y++ {
		t := 1.0
		if height > 1 {
			t = 1 - float64(y)/float64(height-1)
		}
		c := s.at(t).Clamped()
		r, g, b := c.RGB255()
		strip.SetRGBA(0, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), strip, strip.Bounds(), xdraw.Src, nil)

	return dst
}

// EncodeColorbar writes the legend as lossless WebP.
func (s *Scale) EncodeColorbar(w io.Writer, width, height int) error {
	if err := webp.Encode(w, s.Colorbar(width, height), &webp.Options{Lossless: true}); err != nil {
		return fmt.Errorf("encode colorbar: %w", err)
	}
	return nil
}
