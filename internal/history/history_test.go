package history

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/example/tilesmith/internal/layers"
	"github.com/example/tilesmith/internal/raster"
)

func paint(t *testing.T, s *layers.Stack, x, y int, c color.NRGBA) {
	t.Helper()
	if err := s.Active().Surface.Set(x, y, c, 1, raster.ModeSrc); err != nil {
		t.Fatal(err)
	}
}

func sameComposite(a, b *layers.Stack) bool {
	return bytes.Equal(a.Composite().Pix, b.Composite().Pix)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := layers.New(8, 10)
	h := New(0)
	h.Snapshot(s)
	before := s.Clone()

	paint(t, s, 1, 1, color.NRGBA{R: 255, A: 255})
	h.Snapshot(s)
	after := s.Clone()

	if !h.Undo(s) {
		t.Fatal("undo reported nothing to do")
	}
	if !sameComposite(s, before) {
		t.Fatal("undo did not restore the pre-stroke composite")
	}
	if !h.Redo(s) {
		t.Fatal("redo reported nothing to do")
	}
	if !sameComposite(s, after) {
		t.Fatal("redo did not restore the post-stroke composite")
	}
}

func TestBoundaries(t *testing.T) {
	s := layers.New(4, 10)
	h := New(0)
	if h.Undo(s) || h.Redo(s) {
		t.Fatal("empty history should refuse undo and redo")
	}
	h.Snapshot(s)
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("single entry should not be undoable")
	}
	if h.Position() != 0 || h.Len() != 1 {
		t.Fatalf("pos=%d len=%d", h.Position(), h.Len())
	}
}

func TestSnapshotTruncatesRedo(t *testing.T) {
	s := layers.New(4, 10)
	h := New(0)
	h.Snapshot(s)
	paint(t, s, 0, 0, color.NRGBA{R: 1, A: 255})
	h.Snapshot(s)
	paint(t, s, 1, 0, color.NRGBA{R: 2, A: 255})
	h.Snapshot(s)

	h.Undo(s)
	h.Undo(s)
	paint(t, s, 2, 0, color.NRGBA{R: 3, A: 255})
	h.Snapshot(s)

	if h.Len() != 2 || h.CanRedo() {
		t.Fatalf("redo branch kept: len=%d canRedo=%v", h.Len(), h.CanRedo())
	}
	if c, _ := s.Active().Surface.At(0, 0); c.A != 0 {
		t.Fatalf("undone pixel came back: %+v", c)
	}
}

func TestRestoreReplacesLayerList(t *testing.T) {
	s := layers.New(4, 10)
	h := New(0)
	h.Snapshot(s)
	s.Add("extra")
	s.Rename(0, "renamed")
	h.Snapshot(s)

	h.Undo(s)
	if s.Len() != 1 || s.Active().Name != "Layer 1" || s.ActiveIndex() != 0 {
		t.Fatalf("len=%d name=%q active=%d", s.Len(), s.Active().Name, s.ActiveIndex())
	}
	h.Redo(s)
	if s.Len() != 2 || s.ActiveIndex() != 1 {
		t.Fatalf("len=%d active=%d", s.Len(), s.ActiveIndex())
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := layers.New(4, 10)
	h := New(0)
	h.Snapshot(s)
	paint(t, s, 0, 0, color.NRGBA{B: 9, A: 255})
	h.Revert(s)
	if !s.Active().Surface.Empty() {
		t.Fatal("revert did not discard live edits")
	}
	paint(t, s, 0, 0, color.NRGBA{B: 9, A: 255})
	h.Revert(s)
	if !s.Active().Surface.Empty() {
		t.Fatal("stored entry was aliased by the live stack")
	}
}

func TestLimitDropsOldest(t *testing.T) {
	s := layers.New(4, 10)
	h := New(3)
	for i := 0; i < 5; i++ {
		paint(t, s, i%4, 0, color.NRGBA{R: uint8(i + 1), A: 255})
		h.Snapshot(s)
	}
	if h.Len() != 3 || h.Position() != 2 {
		t.Fatalf("len=%d pos=%d", h.Len(), h.Position())
	}
	n := 0
	for h.Undo(s) {
		n++
	}
	if n != 2 {
		t.Fatalf("undo steps = %d, want 2", n)
	}
}
