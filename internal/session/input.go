package session

import (
	"image"
	"image/color"

	"go.uber.org/zap"

	"github.com/example/tilesmith/internal/brush"
	"github.com/example/tilesmith/internal/gridview"
	"github.com/example/tilesmith/internal/raster"
)

// strokeHandler adapts the gesture callbacks onto the session.
type strokeHandler struct{ s *Session }

func (h strokeHandler) Stamp(cell image.Point, erase bool) error {
	s := h.s
	st := brush.FromState(s.tools, cell.X, cell.Y)
	st.Erase = erase
	res, err := brush.Stamp(s.stack.Active().Surface, st)
	if err != nil {
		return err
	}
	s.stroke.stamps++
	s.stroke.cells += res.Cells
	s.refresh()
	return nil
}

func (h strokeHandler) Commit() {
	s := h.s
	s.commit()
	s.log.Debug("stroke committed",
		zap.Int("stamps", s.stroke.stamps),
		zap.Int("cells", s.stroke.cells),
		zap.Int("history", s.hist.Len()))
	s.stroke = strokeStats{}
}

// Abort rolls the stack back to the last committed entry, discarding the
// partial stroke.
func (h strokeHandler) Abort() {
	s := h.s
	s.hist.Revert(s.stack)
	s.refresh()
	s.log.Debug("stroke cancelled", zap.Int("stamps", s.stroke.stamps))
	s.stroke = strokeStats{}
}

// PointerDown begins a stroke, or samples a colour when the eyedropper is
// active and the primary input is used.
func (s *Session) PointerDown(p gridview.Pointer) error {
	if s.tools.Tool == brush.Eyedropper && p.Button != gridview.Secondary {
		if cell, ok := s.gesture.Geometry.Resolve(p); ok {
			s.PickColor(cell)
		}
		return nil
	}
	_, err := s.gesture.Down(p)
	return err
}

func (s *Session) PointerMove(p gridview.Pointer) error {
	return s.gesture.Move(p)
}

// PointerUp ends the stroke and records one history entry for it.
func (s *Session) PointerUp() error {
	return s.gesture.Up()
}

// CancelStroke abandons an in-progress stroke and restores the tile as it was
// before the stroke began. It is a no-op when idle.
func (s *Session) CancelStroke() {
	s.gesture.Cancel()
}

// Stroking reports whether a gesture is in progress.
func (s *Session) Stroking() bool { return s.gesture.State() == gridview.Stroking }

// PickColor reads the composite at an absolute cell and makes it the current
// colour. Transparent pixels read as white. Alpha is dropped.
func (s *Session) PickColor(cell image.Point) color.NRGBA {
	dim := s.stack.Dim()
	c := s.view.Composite().NRGBAAt(raster.Wrap(cell.X, dim), raster.Wrap(cell.Y, dim))
	if c.A == 0 {
		c = color.NRGBA{R: 255, G: 255, B: 255}
	}
	c.A = 255
	s.tools.SetColor(c)
	return c
}

// Paint stamps the current tool at an absolute cell as a complete stroke.
func (s *Session) Paint(x, y int) error {
	return s.PaintLine([]image.Point{{X: x, Y: y}}, false)
}

// PaintLine stamps at every cell of path as one stroke with one history
// entry. erase forces transparent paint.
func (s *Session) PaintLine(path []image.Point, erase bool) error {
	if len(path) == 0 {
		return nil
	}
	h := strokeHandler{s}
	for _, p := range path {
		if err := h.Stamp(p, erase); err != nil {
			h.Abort()
			return err
		}
	}
	h.Commit()
	return nil
}
