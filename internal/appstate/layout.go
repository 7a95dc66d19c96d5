package appstate

import (
	"image"
	"math"

	"golang.org/x/mobile/event/mouse"

	"github.com/example/tilesmith/internal/gridview"
)

const (
	margin       = 8
	statusHeight = 24
)

// layout places the 3×3 grid inside the window. The grid is centred when it
// fits and anchored at the top-left margin otherwise.
type layout struct {
	origin  image.Point
	surface int
	width   int
	height  int
}

func newLayout(winW, winH int, g gridview.Geometry) layout {
	s := int(math.Round(g.SurfaceSize()))
	if s < 1 {
		s = 1
	}
	avail := image.Pt(winW-2*margin, winH-statusHeight-2*margin)
	origin := image.Pt(margin, margin)
	if d := avail.X - 3*s; d > 0 {
		origin.X += d / 2
	}
	if d := avail.Y - 3*s; d > 0 {
		origin.Y += d / 2
	}
	return layout{origin: origin, surface: s, width: winW, height: winH}
}

// windowSize returns the window size that fits the whole grid.
func windowSize(g gridview.Geometry) image.Point {
	s := int(math.Round(g.SurfaceSize()))
	return image.Pt(3*s+2*margin, 3*s+2*margin+statusHeight)
}

func (l layout) grid() image.Rectangle {
	return image.Rectangle{Min: l.origin, Max: l.origin.Add(image.Pt(3*l.surface, 3*l.surface))}
}

// surfaceRect returns the screen rectangle of the surface at o.
func (l layout) surfaceRect(o gridview.Offset) image.Rectangle {
	at := l.origin.Add(image.Pt((o.DX+1)*l.surface, (o.DY+1)*l.surface))
	return image.Rectangle{Min: at, Max: at.Add(image.Pt(l.surface, l.surface))}
}

func (l layout) statusRect() image.Rectangle {
	return image.Rect(0, l.height-statusHeight, l.width, l.height)
}

// pointer converts a window position into a pointer on whichever surface
// contains it.
func (l layout) pointer(x, y float32, b gridview.Button) (gridview.Pointer, bool) {
	fx, fy := float64(x), float64(y)
	pt := image.Pt(int(math.Floor(fx)), int(math.Floor(fy)))
	for _, o := range gridview.Offsets() {
		r := l.surfaceRect(o)
		if pt.In(r) {
			return gridview.Pointer{
				Offset: o,
				X:      fx - float64(r.Min.X),
				Y:      fy - float64(r.Min.Y),
				Button: b,
			}, true
		}
	}
	return gridview.Pointer{}, false
}

// offsetAt returns the surface under a window position.
func (l layout) offsetAt(x, y float32) (gridview.Offset, bool) {
	p, ok := l.pointer(x, y, gridview.Primary)
	return p.Offset, ok
}

// buttonOf maps a mouse button onto a gesture button. Right click erases;
// everything else paints.
func buttonOf(b mouse.Button) gridview.Button {
	if b == mouse.ButtonRight {
		return gridview.Secondary
	}
	return gridview.Primary
}
