// Package gridview projects pointer input on the 3×3 preview grid back into
// the single authoritative tile and keeps the nine display surfaces in sync
// with the layer composite.
package gridview

import (
	"image"
	"math"
)

// Offset is the grid position of one display surface relative to the
// centre. Both components are in {-1, 0, 1}.
type Offset struct {
	DX, DY int
}

// Centre is the only editable surface.
var Centre = Offset{}

var offsets = [9]Offset{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Offsets lists the nine grid offsets row-major. Index 4 is Centre.
func Offsets() [9]Offset { return offsets }

// Index returns the row-major slot of o, or -1 when o is not in the grid.
func (o Offset) Index() int {
	if o.DX < -1 || o.DX > 1 || o.DY < -1 || o.DY > 1 {
		return -1
	}
	return (o.DY+1)*3 + o.DX + 1
}

// Button identifies the input that started a gesture.
type Button int

const (
	Primary Button = iota
	Secondary
	Touch
)

// Pointer is one input sample. X and Y are in screen pixels relative to the
// top-left corner of the surface at Offset.
type Pointer struct {
	Offset Offset
	X, Y   float64
	Button Button
}

// Geometry describes how tile cells map to screen pixels.
type Geometry struct {
	Dim       int
	PixelSize int
	Zoom      float64
}

// CellSize returns the on-screen size of one cell.
func (g Geometry) CellSize() float64 {
	z := g.Zoom
	if z <= 0 {
		z = 1
	}
	return float64(g.PixelSize) * z
}

// SurfaceSize returns the on-screen edge length of one grid surface.
func (g Geometry) SurfaceSize() float64 {
	return g.CellSize() * float64(g.Dim)
}

// Resolve maps a pointer to an absolute cell: the local cell inside the
// clicked surface plus the surface offset times Dim. It reports false when
// the pointer lies outside the surface or the offset is not in the grid.
// The result is not wrapped.
func (g Geometry) Resolve(p Pointer) (image.Point, bool) {
	if p.Offset.Index() < 0 || g.Dim < 1 || g.PixelSize < 1 {
		return image.Point{}, false
	}
	cs := g.CellSize()
	lx := int(math.Floor(p.X / cs))
	ly := int(math.Floor(p.Y / cs))
	if lx < 0 || ly < 0 || lx >= g.Dim || ly >= g.Dim {
		return image.Point{}, false
	}
	return image.Pt(lx+p.Offset.DX*g.Dim, ly+p.Offset.DY*g.Dim), true
}
