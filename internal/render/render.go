// Package render builds display and export images from a tile composite:
// checkerboard backdrops, nearest-neighbour upscaling and repeated sheets.
package render

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// MaxScale bounds Upscale and Sheet so a 128 tile stays addressable.
const MaxScale = 64

// Checker fills r of dst with a checkerboard of cell×cell squares.
func Checker(dst xdraw.Image, r image.Rectangle, cell int, light, dark color.Color) {
	if cell < 1 {
		cell = 1
	}
	lu, du := image.NewUniform(light), image.NewUniform(dark)
	for y := r.Min.Y; y < r.Max.Y; y += cell {
		for x := r.Min.X; x < r.Max.X; x += cell {
			src := lu
			if ((x-r.Min.X)/cell+(y-r.Min.Y)/cell)%2 == 1 {
				src = du
			}
			sq := image.Rect(x, y, x+cell, y+cell).Intersect(r)
			xdraw.Draw(dst, sq, src, image.Point{}, xdraw.Src)
		}
	}
}

// Upscale enlarges src by an integer factor with hard pixel edges.
func Upscale(src image.Image, scale int) (*image.NRGBA, error) {
	if scale < 1 || scale > MaxScale {
		return nil, fmt.Errorf("scale %d not in 1..%d", scale, MaxScale)
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	if scale == 1 {
		xdraw.Copy(dst, image.Point{}, src, b, xdraw.Src, nil)
		return dst, nil
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst, nil
}

// Sheet repeats tile cols×rows times and scales the result, producing the
// seamless texture an artist would place in a game.
func Sheet(tile image.Image, cols, rows, scale int) (*image.NRGBA, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("sheet %dx%d must be at least 1x1", cols, rows)
	}
	b := tile.Bounds()
	sheet := image.NewNRGBA(image.Rect(0, 0, b.Dx()*cols, b.Dy()*rows))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			at := image.Pt(c*b.Dx(), r*b.Dy())
			xdraw.Copy(sheet, at, tile, b, xdraw.Src, nil)
		}
	}
	return Upscale(sheet, scale)
}

// Tint washes r of dst with a translucent colour.
func Tint(dst xdraw.Image, r image.Rectangle, c color.Color) {
	xdraw.Draw(dst, r, image.NewUniform(c), image.Point{}, xdraw.Over)
}

// Outline draws a one pixel border just inside r.
func Outline(dst xdraw.Image, r image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		xdraw.Draw(dst, edge.Intersect(r), u, image.Point{}, xdraw.Src)
	}
}
