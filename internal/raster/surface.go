// Package raster holds the single-tile pixel buffer that every layer owns.
//
// A Surface is a square, row-major, non-premultiplied RGBA buffer addressed
// by integer cell coordinates. It never wraps: callers translate toroidal
// coordinates with Wrap before touching it.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// ErrOutOfBounds is returned when a cell lies outside the surface.
var ErrOutOfBounds = errors.New("cell out of bounds")

// ErrInvalidDimension is returned when a surface is created or resized to a
// non-positive size.
var ErrInvalidDimension = errors.New("invalid surface dimension")

// Mode selects how Set combines a colour with the existing pixel.
type Mode int

const (
	// ModeSrc overwrites the pixel.
	ModeSrc Mode = iota
	// ModeOver blends the colour over the pixel using source-over.
	ModeOver
	// ModeErase removes coverage from the pixel in proportion to alpha.
	ModeErase
)

// Transparent is the fully transparent colour used by erasing tools.
var Transparent = color.NRGBA{}

// Surface is a Dim×Dim non-premultiplied RGBA bitmap with its origin at (0,0).
type Surface struct {
	img *image.NRGBA
}

// New allocates a transparent surface of dim×dim cells.
func New(dim int) *Surface {
	if dim < 1 {
		dim = 1
	}
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, dim, dim))}
}

// Dim returns the edge length of the surface.
func (s *Surface) Dim() int { return s.img.Bounds().Dx() }

// Image exposes the backing buffer. Writes through it bypass validation.
func (s *Surface) Image() *image.NRGBA { return s.img }

// In reports whether (x, y) addresses a cell of s.
func (s *Surface) In(x, y int) bool {
	d := s.Dim()
	return x >= 0 && y >= 0 && x < d && y < d
}

// At returns the colour stored at (x, y).
func (s *Surface) At(x, y int) (color.NRGBA, error) {
	if !s.In(x, y) {
		return color.NRGBA{}, fmt.Errorf("get (%d,%d) on %dx%d surface: %w", x, y, s.Dim(), s.Dim(), ErrOutOfBounds)
	}
	return s.img.NRGBAAt(x, y), nil
}

// Set writes c to (x, y). alpha in [0,1] scales the colour's own alpha for
// ModeOver and the amount of coverage removed for ModeErase. ModeSrc stores c
// with its alpha multiplied by alpha.
func (s *Surface) Set(x, y int, c color.NRGBA, alpha float64, mode Mode) error {
	if !s.In(x, y) {
		return fmt.Errorf("set (%d,%d) on %dx%d surface: %w", x, y, s.Dim(), s.Dim(), ErrOutOfBounds)
	}
	alpha = clamp01(alpha)
	dst := s.img.NRGBAAt(x, y)
	switch mode {
	case ModeSrc:
		c.A = to8(float64(c.A) / 255 * alpha)
		s.img.SetNRGBA(x, y, c)
	case ModeOver:
		s.img.SetNRGBA(x, y, Over(dst, c, alpha))
	case ModeErase:
		dst.A = to8(float64(dst.A) * (1 - alpha) / 255)
		if dst.A == 0 {
			dst = Transparent
		}
		s.img.SetNRGBA(x, y, dst)
	default:
		return fmt.Errorf("unknown blend mode %d", mode)
	}
	return nil
}

// Over composites src, whose alpha is further scaled by k, on top of dst.
// Both colours are non-premultiplied.
func Over(dst, src color.NRGBA, k float64) color.NRGBA {
	sa := float64(src.A) / 255 * clamp01(k)
	if sa <= 0 {
		return dst
	}
	da := float64(dst.A) / 255
	oa := sa + da*(1-sa)
	if oa <= 0 {
		return Transparent
	}
	mix := func(s, d uint8) uint8 {
		v := (float64(s)*sa + float64(d)*da*(1-sa)) / oa
		return to8(v / 255)
	}
	return color.NRGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: to8(oa),
	}
}

// Clear makes every pixel fully transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Resize reallocates the surface at dim×dim. Content keeps its (0,0)
// anchored position; cells beyond the new edge are discarded and new cells
// are transparent. No resampling takes place.
func (s *Surface) Resize(dim int) error {
	if dim < 1 {
		return fmt.Errorf("resize to %d: %w", dim, ErrInvalidDimension)
	}
	if dim == s.Dim() {
		return nil
	}
	next := image.NewNRGBA(image.Rect(0, 0, dim, dim))
	n := min(dim, s.Dim()) * 4
	for y := 0; y < min(dim, s.Dim()); y++ {
		copy(next.Pix[y*next.Stride:y*next.Stride+n], s.img.Pix[y*s.img.Stride:y*s.img.Stride+n])
	}
	s.img = next
	return nil
}

// Clone returns a deep copy of s.
func (s *Surface) Clone() *Surface {
	cp := image.NewNRGBA(s.img.Bounds())
	copy(cp.Pix, s.img.Pix)
	return &Surface{img: cp}
}

// CopyFrom replaces the content of s with the content of src. Both surfaces
// must share a dimension.
func (s *Surface) CopyFrom(src *Surface) error {
	if src.Dim() != s.Dim() {
		return fmt.Errorf("copy %dx%d into %dx%d: %w", src.Dim(), src.Dim(), s.Dim(), s.Dim(), ErrDimensionMismatch)
	}
	copy(s.img.Pix, src.img.Pix)
	return nil
}

// Equal reports whether two surfaces hold byte-identical pixels.
func (s *Surface) Equal(o *Surface) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Dim() != o.Dim() {
		return false
	}
	for i := range s.img.Pix {
		if s.img.Pix[i] != o.img.Pix[i] {
			return false
		}
	}
	return true
}

// Empty reports whether every pixel is fully transparent.
func (s *Surface) Empty() bool {
	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// to8 converts a normalised value to an 8-bit channel with rounding.
func to8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
