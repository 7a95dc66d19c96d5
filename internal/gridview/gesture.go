package gridview

import (
	"image"
	"time"
)

// State of a Gesture.
type State int

const (
	Idle State = iota
	Stroking
)

func (s State) String() string {
	if s == Stroking {
		return "stroking"
	}
	return "idle"
}

// Handler receives the effects of a gesture.
type Handler interface {
	// Stamp paints at an absolute, unwrapped cell. erase is set for the
	// whole gesture when it was started with the secondary button.
	Stamp(cell image.Point, erase bool) error
	// Commit ends a stroke. It is called exactly once per completed stroke.
	Commit()
	// Abort ends a stroke without committing it.
	Abort()
}

// Gesture is the pointer state machine for one input device. It is not safe
// for concurrent use.
type Gesture struct {
	Geometry Geometry
	// Interval throttles moves. Zero disables throttling.
	Interval time.Duration

	h       Handler
	now     func() time.Time
	state   State
	erase   bool
	last    time.Time
	pending *image.Point
}

// NewGesture binds a state machine to h. now may be nil for time.Now.
func NewGesture(g Geometry, h Handler, now func() time.Time) *Gesture {
	if now == nil {
		now = time.Now
	}
	return &Gesture{Geometry: g, h: h, now: now}
}

func (g *Gesture) State() State { return g.state }

// Erasing reports whether the current gesture forces erase.
func (g *Gesture) Erasing() bool { return g.state == Stroking && g.erase }

// Down starts a stroke when p lands on a surface. It reports whether a
// stroke started.
func (g *Gesture) Down(p Pointer) (bool, error) {
	if g.state == Stroking {
		return false, nil
	}
	cell, ok := g.Geometry.Resolve(p)
	if !ok {
		return false, nil
	}
	g.state = Stroking
	g.erase = p.Button == Secondary
	g.pending = nil
	g.last = g.now()
	if err := g.h.Stamp(cell, g.erase); err != nil {
		g.Cancel()
		return false, err
	}
	return true, nil
}

// Move continues a stroke. Samples outside every surface are ignored. When
// throttled, the newest sample inside the interval is held until the next
// allowed move or Up.
func (g *Gesture) Move(p Pointer) error {
	if g.state != Stroking {
		return nil
	}
	cell, ok := g.Geometry.Resolve(p)
	if !ok {
		return nil
	}
	if g.Interval > 0 {
		t := g.now()
		if t.Sub(g.last) < g.Interval {
			g.pending = &cell
			return nil
		}
		g.last = t
	}
	g.pending = nil
	return g.h.Stamp(cell, g.erase)
}

// Up flushes any held move and commits the stroke. The release position
// itself does not paint.
func (g *Gesture) Up() error {
	if g.state != Stroking {
		return nil
	}
	var err error
	if g.pending != nil {
		err = g.h.Stamp(*g.pending, g.erase)
		g.pending = nil
	}
	g.state = Idle
	g.erase = false
	g.h.Commit()
	return err
}

// Cancel abandons the current stroke.
func (g *Gesture) Cancel() {
	if g.state != Stroking {
		return
	}
	g.state = Idle
	g.erase = false
	g.pending = nil
	g.h.Abort()
}
