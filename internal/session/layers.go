package session

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/tilesmith/internal/config"
	"github.com/example/tilesmith/internal/layers"
)

// layerOp runs a structural layer change. On success the view is refreshed
// and a history entry recorded; on a recoverable rejection the user is
// warned and nothing changes.
func (s *Session) layerOp(name string, fn func() error) error {
	if err := fn(); err != nil {
		switch {
		case errors.Is(err, layers.ErrMaxLayers):
			s.warn(fmt.Sprintf("Maximum %d layers allowed", s.stack.Max()), err)
		case errors.Is(err, layers.ErrLastLayer):
			s.warn("Cannot delete the last layer", err)
		default:
			s.log.Warn("layer operation failed", zap.String("op", name), zap.Error(err))
		}
		return err
	}
	s.refresh()
	s.commit()
	return nil
}

// AddLayer appends a blank layer and selects it.
func (s *Session) AddLayer(name string) error {
	var added *layers.Layer
	err := s.layerOp("add", func() (err error) {
		added, err = s.stack.Add(name)
		return err
	})
	if err == nil {
		s.info(fmt.Sprintf("Layer %q added", added.Name))
	}
	return err
}

// RemoveLayer deletes the layer at i. The last layer cannot be removed.
func (s *Session) RemoveLayer(i int) error {
	var removed *layers.Layer
	err := s.layerOp("remove", func() (err error) {
		removed, err = s.stack.Remove(i)
		return err
	})
	if err == nil {
		s.info(fmt.Sprintf("Layer %q deleted", removed.Name))
	}
	return err
}

// DuplicateLayer copies layer i directly above itself.
func (s *Session) DuplicateLayer(i int) error {
	var dup *layers.Layer
	err := s.layerOp("duplicate", func() (err error) {
		dup, err = s.stack.Duplicate(i)
		return err
	})
	if err == nil {
		s.info(fmt.Sprintf("Layer %q added", dup.Name))
	}
	return err
}

func (s *Session) RenameLayer(i int, name string) error {
	return s.layerOp("rename", func() error { return s.stack.Rename(i, name) })
}

func (s *Session) ToggleLayerVisibility(i int) error {
	return s.layerOp("visibility", func() error {
		_, err := s.stack.ToggleVisibility(i)
		return err
	})
}

func (s *Session) SetLayerVisible(i int, visible bool) error {
	return s.layerOp("visibility", func() error { return s.stack.SetVisible(i, visible) })
}

func (s *Session) SetLayerOpacity(i int, o float64) error {
	return s.layerOp("opacity", func() error { return s.stack.SetOpacity(i, o) })
}

// ReorderLayer moves layer src to dst, keeping the active layer selected.
func (s *Session) ReorderLayer(src, dst int) error {
	return s.layerOp("reorder", func() error { return s.stack.Reorder(src, dst) })
}

// MoveLayer swaps layer i with its neighbour.
func (s *Session) MoveLayer(i int, d layers.Direction) error {
	return s.layerOp("move", func() error { return s.stack.Move(i, d) })
}

// SelectLayer changes the paint target. Selection is not an undo step.
func (s *Session) SelectLayer(i int) error {
	return s.stack.SetActive(i)
}

// ClearActiveLayer makes the active layer transparent and records the change.
func (s *Session) ClearActiveLayer() {
	s.stack.ClearActive()
	s.refresh()
	s.commit()
}

// Undo restores the previous history entry.
func (s *Session) Undo() bool {
	if !s.hist.Undo(s.stack) {
		return false
	}
	s.refresh()
	s.dirty = true
	return true
}

// Redo re-applies the next history entry.
func (s *Session) Redo() bool {
	if !s.hist.Redo(s.stack) {
		return false
	}
	s.refresh()
	s.dirty = true
	return true
}

// Reset discards every layer and the history, leaving a single blank layer.
func (s *Session) Reset() {
	s.gesture.Cancel()
	s.stack = layers.New(s.stack.Dim(), s.cfg.MaxLayers)
	s.hist.Reset(s.stack)
	s.view.ResetMirrors()
	s.refresh()
	s.dirty = false
}

// SetTileDimension resizes every layer without resampling. Out-of-range
// sizes are rejected before anything changes. History restarts from the
// resized tile.
func (s *Session) SetTileDimension(n int) error {
	if err := config.ValidateTileDimension(n); err != nil {
		s.warn(fmt.Sprintf("Tile size must be between %d and %d", config.MinTileDim, config.MaxTileDim), err)
		return err
	}
	if n == s.stack.Dim() {
		return nil
	}
	s.gesture.Cancel()
	if err := s.stack.Resize(n); err != nil {
		return err
	}
	s.cfg.TileDim = n
	s.gesture.Geometry = s.geometry()
	s.hist.Reset(s.stack)
	s.refresh()
	s.dirty = true
	s.log.Info("tile resized", zap.Int("tile_dim", n))
	return nil
}

// Load replaces the whole stack with records decoded at dim. Everything is
// validated first; on error the session is unchanged.
func (s *Session) Load(dim int, recs []layers.Record, active int) error {
	if err := config.ValidateTileDimension(dim); err != nil {
		return err
	}
	next := layers.New(dim, s.cfg.MaxLayers)
	if err := next.Restore(recs, active); err != nil {
		return err
	}
	s.gesture.Cancel()
	s.stack = next
	s.cfg.TileDim = dim
	s.gesture.Geometry = s.geometry()
	s.hist.Reset(s.stack)
	s.view.ResetMirrors()
	s.refresh()
	s.dirty = false
	return nil
}
