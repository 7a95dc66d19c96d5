package brush

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/example/tilesmith/internal/raster"
)

const (
	falloffFloor = 0.1
	falloffSlope = 0.8
)

// Cell is one wrapped cell of a footprint and the alpha applied to it.
type Cell struct {
	X, Y  int
	Alpha float64
}

// Falloff returns the per-cell alpha for a cell at dist from the centre of a
// stamp of radius r. Only the brush tool with r > 0 fades; every other case
// is uniform.
func Falloff(tool Tool, dist float64, r int, opacity float64) float64 {
	if tool != Brush || r <= 0 {
		return opacity
	}
	return opacity * math.Max(falloffFloor, 1-(dist/float64(r+1))*falloffSlope)
}

// Footprint lists the (2r+1)² cells covered by a stamp centred on (cx, cy),
// each wrapped into [0,dim). The centre may be any integer.
func Footprint(cx, cy, r, dim int, tool Tool, opacity float64) ([]Cell, error) {
	if r < 0 {
		return nil, fmt.Errorf("footprint radius %d: %w", r, ErrNegativeRadius)
	}
	if dim < 1 {
		return nil, fmt.Errorf("footprint on %d tile: %w", dim, raster.ErrInvalidDimension)
	}
	cells := make([]Cell, 0, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d := math.Sqrt(float64(dx*dx + dy*dy))
			cells = append(cells, Cell{
				X:     raster.Wrap(cx+dx, dim),
				Y:     raster.Wrap(cy+dy, dim),
				Alpha: Falloff(tool, d, r, opacity),
			})
		}
	}
	return cells, nil
}

// Stroke is one stamp request.
type Stroke struct {
	X, Y    int
	Radius  int
	Color   color.NRGBA
	Opacity float64
	Tool    Tool
	// Erase forces transparent paint regardless of Tool.
	Erase bool
}

// FromState fills a Stroke at (x, y) from the tool state.
func FromState(ts ToolState, x, y int) Stroke {
	return Stroke{X: x, Y: y, Radius: ts.Radius, Color: ts.Color, Opacity: ts.Opacity, Tool: ts.Tool}
}

func (s Stroke) erasing() bool {
	return s.Erase || s.Tool == Eraser || s.Color.A == 0
}

// Result describes what a stamp touched. Bounds is the unwrapped footprint in
// tile coordinates and may extend past the tile edges.
type Result struct {
	Cells  int
	Bounds image.Rectangle
}

// Stamp applies one stroke to surf. Eyedropper strokes are rejected; they
// read the composite instead of writing.
func Stamp(surf *raster.Surface, s Stroke) (Result, error) {
	if s.Tool == Eyedropper && !s.Erase {
		return Result{}, fmt.Errorf("stamp: %v does not paint", s.Tool)
	}
	cells, err := Footprint(s.X, s.Y, s.Radius, surf.Dim(), s.Tool, s.Opacity)
	if err != nil {
		return Result{}, err
	}
	mode, c := raster.ModeOver, s.Color
	if s.erasing() {
		mode, c = raster.ModeErase, raster.Transparent
	}
	for _, cell := range cells {
		if err := surf.Set(cell.X, cell.Y, c, cell.Alpha, mode); err != nil {
			return Result{}, err
		}
	}
	cx, cy := raster.Wrap(s.X, surf.Dim()), raster.Wrap(s.Y, surf.Dim())
	return Result{
		Cells:  len(cells),
		Bounds: image.Rect(cx-s.Radius, cy-s.Radius, cx+s.Radius+1, cy+s.Radius+1),
	}, nil
}
