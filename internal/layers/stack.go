// Package layers implements the ordered layer stack of a tile and its
// compositing into a single flattened image.
package layers

import (
	"errors"
	"fmt"

	"github.com/example/tilesmith/internal/raster"
)

var (
	// ErrIndexOutOfRange is returned for a layer index outside the stack.
	ErrIndexOutOfRange = errors.New("layer index out of range")
	// ErrMaxLayers is returned when adding would exceed the stack capacity.
	ErrMaxLayers = errors.New("maximum layer count reached")
	// ErrLastLayer is returned when removing the only remaining layer.
	ErrLastLayer = errors.New("cannot delete the last layer")
)

// DefaultMaxLayers matches the editor's stock capacity.
const DefaultMaxLayers = 10

// Direction is used by Move.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// Layer is one named raster in the stack.
type Layer struct {
	ID      int
	Name    string
	Visible bool
	Opacity float64
	Surface *raster.Surface
}

func (l *Layer) clone() *Layer {
	cp := *l
	cp.Surface = l.Surface.Clone()
	return &cp
}

// Stack is the ordered list of layers, bottom first, plus the active layer
// pointer. A Stack always holds at least one layer.
type Stack struct {
	dim    int
	max    int
	nextID int
	layers []*Layer
	active int
}

// New returns a stack with a single blank layer named "Layer 1".
func New(dim, max int) *Stack {
	if max < 1 {
		max = DefaultMaxLayers
	}
	s := &Stack{dim: dim, max: max, nextID: 1}
	s.layers = []*Layer{s.newLayer("Layer 1")}
	return s
}

func (s *Stack) newLayer(name string) *Layer {
	l := &Layer{ID: s.nextID, Name: name, Visible: true, Opacity: 1, Surface: raster.New(s.dim)}
	s.nextID++
	return l
}

// Dim returns the tile dimension shared by every layer.
func (s *Stack) Dim() int { return s.dim }

// Max returns the configured layer capacity.
func (s *Stack) Max() int { return s.max }

// SetMax changes the layer capacity. Existing layers above the new cap are
// kept; only further additions are refused.
func (s *Stack) SetMax(max int) {
	if max >= 1 {
		s.max = max
	}
}

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.layers) }

// ActiveIndex returns the index of the active layer.
func (s *Stack) ActiveIndex() int { return s.active }

// Active returns the active layer.
func (s *Stack) Active() *Layer { return s.layers[s.active] }

// Layer returns the layer at index i.
func (s *Stack) Layer(i int) (*Layer, error) {
	if err := s.check(i); err != nil {
		return nil, err
	}
	return s.layers[i], nil
}

// Layers returns the layers bottom to top. The slice is a copy; the layers
// are shared.
func (s *Stack) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

func (s *Stack) check(i int) error {
	if i < 0 || i >= len(s.layers) {
		return fmt.Errorf("layer %d of %d: %w", i, len(s.layers), ErrIndexOutOfRange)
	}
	return nil
}

// Add appends a blank layer on top and makes it active. An empty name
// becomes "Layer N".
func (s *Stack) Add(name string) (*Layer, error) {
	if len(s.layers) >= s.max {
		return nil, fmt.Errorf("add layer: %w (%d)", ErrMaxLayers, s.max)
	}
	if name == "" {
		name = fmt.Sprintf("Layer %d", len(s.layers)+1)
	}
	l := s.newLayer(name)
	s.layers = append(s.layers, l)
	s.active = len(s.layers) - 1
	return l, nil
}

// Remove deletes the layer at i. The active index is clamped so it still
// addresses a layer, and follows its layer when a lower one is removed.
func (s *Stack) Remove(i int) (*Layer, error) {
	if err := s.check(i); err != nil {
		return nil, err
	}
	if len(s.layers) == 1 {
		return nil, ErrLastLayer
	}
	removed := s.layers[i]
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	if i < s.active {
		s.active--
	}
	if s.active >= len(s.layers) {
		s.active = len(s.layers) - 1
	}
	return removed, nil
}

// Duplicate inserts a deep copy of layer i directly above it and makes the
// copy active.
func (s *Stack) Duplicate(i int) (*Layer, error) {
	if err := s.check(i); err != nil {
		return nil, err
	}
	if len(s.layers) >= s.max {
		return nil, fmt.Errorf("duplicate layer: %w (%d)", ErrMaxLayers, s.max)
	}
	src := s.layers[i]
	dup := src.clone()
	dup.ID = s.nextID
	s.nextID++
	dup.Name = src.Name + " Copy"
	s.layers = append(s.layers, nil)
	copy(s.layers[i+2:], s.layers[i+1:])
	s.layers[i+1] = dup
	s.active = i + 1
	return dup, nil
}

// SetActive selects layer i for painting.
func (s *Stack) SetActive(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.active = i
	return nil
}

// ToggleVisibility flips the visibility of layer i and returns the new value.
func (s *Stack) ToggleVisibility(i int) (bool, error) {
	if err := s.check(i); err != nil {
		return false, err
	}
	s.layers[i].Visible = !s.layers[i].Visible
	return s.layers[i].Visible, nil
}

// SetVisible sets the visibility of layer i.
func (s *Stack) SetVisible(i int, visible bool) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.layers[i].Visible = visible
	return nil
}

// SetOpacity sets the opacity of layer i, clamped to [0,1].
func (s *Stack) SetOpacity(i int, opacity float64) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.layers[i].Opacity = clampOpacity(opacity)
	return nil
}

// Rename changes the display name of layer i.
func (s *Stack) Rename(i int, name string) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.layers[i].Name = name
	return nil
}

// Reorder moves the layer at src so that it ends up at index dst. The
// layer that was active before the move stays active.
func (s *Stack) Reorder(src, dst int) error {
	if err := s.check(src); err != nil {
		return err
	}
	if err := s.check(dst); err != nil {
		return err
	}
	if src == dst {
		return nil
	}
	l := s.layers[src]
	s.layers = append(s.layers[:src], s.layers[src+1:]...)
	s.layers = append(s.layers, nil)
	copy(s.layers[dst+1:], s.layers[dst:])
	s.layers[dst] = l

	switch {
	case s.active == src:
		s.active = dst
	case src < s.active && dst >= s.active:
		s.active--
	case src > s.active && dst <= s.active:
		s.active++
	}
	return nil
}

// Move swaps layer i with its neighbour in direction d. Moving past either
// end is a no-op.
func (s *Stack) Move(i int, d Direction) error {
	if err := s.check(i); err != nil {
		return err
	}
	j := i + int(d)
	if j < 0 || j >= len(s.layers) {
		return nil
	}
	return s.Reorder(i, j)
}

// ClearActive makes the active layer fully transparent.
func (s *Stack) ClearActive() {
	s.Active().Surface.Clear()
}

// Resize reallocates every layer at dim×dim without resampling.
func (s *Stack) Resize(dim int) error {
	if dim < 1 {
		return fmt.Errorf("resize stack to %d: %w", dim, raster.ErrInvalidDimension)
	}
	for _, l := range s.layers {
		if err := l.Surface.Resize(dim); err != nil {
			return err
		}
	}
	s.dim = dim
	return nil
}

// Clone returns a deep copy of the stack including layer identity, order and
// the active index.
func (s *Stack) Clone() *Stack {
	cp := &Stack{dim: s.dim, max: s.max, nextID: s.nextID, active: s.active}
	cp.layers = make([]*Layer, len(s.layers))
	for i, l := range s.layers {
		cp.layers[i] = l.clone()
	}
	return cp
}

// ReplaceWith overwrites s with a deep copy of o.
func (s *Stack) ReplaceWith(o *Stack) {
	c := o.Clone()
	s.dim = c.dim
	s.nextID = c.nextID
	s.layers = c.layers
	s.active = c.active
}

func clampOpacity(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
