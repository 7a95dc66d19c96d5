package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// ErrDimensionMismatch is returned when decoded pixels do not match the
// expected tile dimension.
var ErrDimensionMismatch = errors.New("dimension mismatch")

const dataURLPrefix = "data:image/png;base64,"

// EncodePNG writes the surface losslessly as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// DecodePNG reads a PNG image of exactly dim×dim pixels into a new surface.
func DecodePNG(r io.Reader, dim int) (*Surface, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	b := img.Bounds()
	if b.Dx() != dim || b.Dy() != dim {
		return nil, fmt.Errorf("decoded %dx%d, want %dx%d: %w", b.Dx(), b.Dy(), dim, dim, ErrDimensionMismatch)
	}
	s := New(dim)
	toNRGBA(s.img, img)
	return s, nil
}

// DataURL returns the surface as a base64 PNG data URL.
func (s *Surface) DataURL() (string, error) {
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// FromDataURL decodes a PNG data URL produced by DataURL.
func FromDataURL(url string, dim int) (*Surface, error) {
	if !strings.HasPrefix(url, dataURLPrefix) {
		return nil, fmt.Errorf("unsupported data url %q", truncate(url, 32))
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, dataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return DecodePNG(bytes.NewReader(raw), dim)
}

// FromImage fits img inside a dim×dim surface, preserving aspect ratio and
// centring it. Scaling uses nearest-neighbour so pixel art stays crisp.
func FromImage(img image.Image, dim int) *Surface {
	s := New(dim)
	b := img.Bounds()
	if b.Empty() {
		return s
	}
	if b.Dx() == dim && b.Dy() == dim {
		toNRGBA(s.img, img)
		return s
	}
	scale := float64(dim) / float64(b.Dx())
	if sy := float64(dim) / float64(b.Dy()); sy < scale {
		scale = sy
	}
	w := int(float64(b.Dx())*scale + 0.5)
	h := int(float64(b.Dy())*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	x0 := (dim - w) / 2
	y0 := (dim - h) / 2
	xdraw.NearestNeighbor.Scale(s.img, image.Rect(x0, y0, x0+w, y0+h), img, b, xdraw.Src, nil)
	return s
}

// toNRGBA copies img into dst converting through the NRGBA colour model.
func toNRGBA(dst *image.NRGBA, img image.Image) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetNRGBA(x, y, color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
