package layers

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/example/tilesmith/internal/raster"
)

// ErrNoLayers is returned by Restore for an empty record list.
var ErrNoLayers = errors.New("no layers in record list")

// Record is the persisted form of a layer.
type Record struct {
	Name    string
	Visible bool
	Opacity float64
	PNG     []byte
}

// Records serialises every layer bottom to top with PNG-encoded pixels.
func (s *Stack) Records() ([]Record, error) {
	out := make([]Record, 0, len(s.layers))
	for i, l := range s.layers {
		var buf bytes.Buffer
		if err := l.Surface.EncodePNG(&buf); err != nil {
			return nil, fmt.Errorf("encode layer %d %q: %w", i, l.Name, err)
		}
		out = append(out, Record{Name: l.Name, Visible: l.Visible, Opacity: l.Opacity, PNG: buf.Bytes()})
	}
	return out, nil
}

// Restore replaces the whole stack with recs. Every record is decoded and
// validated against the stack dimension before anything is replaced, so a
// failure leaves s untouched. active is clamped into range.
func (s *Stack) Restore(recs []Record, active int) error {
	if len(recs) == 0 {
		return ErrNoLayers
	}
	if len(recs) > s.max {
		return fmt.Errorf("restore %d layers: %w (%d)", len(recs), ErrMaxLayers, s.max)
	}
	next := make([]*Layer, 0, len(recs))
	id := s.nextID
	for i, r := range recs {
		surf, err := raster.DecodePNG(bytes.NewReader(r.PNG), s.dim)
		if err != nil {
			return fmt.Errorf("decode layer %d %q: %w", i, r.Name, err)
		}
		next = append(next, &Layer{ID: id, Name: r.Name, Visible: r.Visible, Opacity: clampOpacity(r.Opacity), Surface: surf})
		id++
	}
	s.layers = next
	s.nextID = id
	s.active = min(max(active, 0), len(next)-1)
	return nil
}
