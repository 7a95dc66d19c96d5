package layers

import (
	"image"

	"github.com/example/tilesmith/internal/raster"
)

// Composite flattens the visible layers bottom to top into a new image.
func (s *Stack) Composite() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, s.dim, s.dim))
	s.CompositeInto(dst)
	return dst
}

// CompositeInto flattens the stack into dst, which must be at least Dim×Dim.
// dst is cleared first. Invisible layers and zero-opacity layers contribute
// nothing.
func (s *Stack) CompositeInto(dst *image.NRGBA) {
	clear(dst.Pix)
	for _, l := range s.layers {
		if !l.Visible || l.Opacity <= 0 {
			continue
		}
		src := l.Surface.Image()
		for y := 0; y < s.dim; y++ {
			for x := 0; x < s.dim; x++ {
				c := src.NRGBAAt(x, y)
				if c.A == 0 {
					continue
				}
				dst.SetNRGBA(x, y, raster.Over(dst.NRGBAAt(x, y), c, l.Opacity))
			}
		}
	}
}
