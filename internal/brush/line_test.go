package brush

import (
	"image"
	"reflect"
	"testing"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		a, b image.Point
		want []image.Point
	}{
		{"single", image.Pt(2, 2), image.Pt(2, 2), []image.Point{{2, 2}}},
		{"horizontal", image.Pt(0, 0), image.Pt(3, 0), []image.Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"reverse vertical", image.Pt(1, 2), image.Pt(1, 0), []image.Point{{1, 2}, {1, 1}, {1, 0}}},
		{"diagonal", image.Pt(0, 0), image.Pt(2, 2), []image.Point{{0, 0}, {1, 1}, {2, 2}}},
		{"crosses origin", image.Pt(-1, 0), image.Pt(1, 0), []image.Point{{-1, 0}, {0, 0}, {1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Line(tt.a, tt.b); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Line = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineIsConnected(t *testing.T) {
	pts := Line(image.Pt(0, 0), image.Pt(7, 3))
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1])
		if abs(d.X) > 1 || abs(d.Y) > 1 {
			t.Fatalf("gap between %v and %v", pts[i-1], pts[i])
		}
	}
	if pts[len(pts)-1] != image.Pt(7, 3) {
		t.Fatalf("line ends at %v", pts[len(pts)-1])
	}
}

func TestPolyline(t *testing.T) {
	got := Polyline([]image.Point{{0, 0}, {2, 0}, {2, 2}})
	want := []image.Point{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Polyline = %v, want %v", got, want)
	}
}
