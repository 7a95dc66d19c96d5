package layers

import (
	"errors"
	"testing"

	"github.com/example/tilesmith/internal/raster"
)

func TestRecordsRestore(t *testing.T) {
	s := New(8, 10)
	fill(t, s.Active(), red, 0, 3)
	b, _ := s.Add("B")
	fill(t, b, blue, 4, 7)
	s.SetOpacity(1, 0.25)
	s.ToggleVisibility(1)
	want := s.Composite()

	recs, err := s.Records()
	if err != nil {
		t.Fatal(err)
	}

	other := New(8, 10)
	if err := other.Restore(recs, 5); err != nil {
		t.Fatal(err)
	}
	if other.Len() != 2 || other.ActiveIndex() != 1 {
		t.Fatalf("len=%d active=%d", other.Len(), other.ActiveIndex())
	}
	top, _ := other.Layer(1)
	if top.Name != "B" || top.Visible || top.Opacity != 0.25 {
		t.Fatalf("metadata lost: %+v", top)
	}
	got := other.Composite()
	for i := range want.Pix {
		if want.Pix[i] != got.Pix[i] {
			t.Fatal("composite differs after restore")
		}
	}
}

func TestRestoreIsAllOrNothing(t *testing.T) {
	s := New(8, 10)
	fill(t, s.Active(), red, 0, 0)
	recs, _ := s.Records()

	small := New(4, 10)
	smallRecs, _ := small.Records()

	bad := append(recs, smallRecs[0])
	if err := s.Restore(bad, 0); !errors.Is(err, raster.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	bad = append(recs, Record{Name: "junk", PNG: []byte("not a png")})
	if err := s.Restore(bad, 0); err == nil {
		t.Fatal("expected decode error")
	}
	if s.Len() != 1 {
		t.Fatalf("stack mutated on failure: len %d", s.Len())
	}
	if c, _ := s.Active().Surface.At(0, 0); c != red {
		t.Fatalf("pixels mutated on failure: %+v", c)
	}
	if err := s.Restore(nil, 0); !errors.Is(err, ErrNoLayers) {
		t.Fatalf("expected ErrNoLayers, got %v", err)
	}
}
