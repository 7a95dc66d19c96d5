package brush

import "image"

// Line returns every cell on the Bresenham line from a to b, both ends
// included.
func Line(a, b image.Point) []image.Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := -1, -1
	if a.X < b.X {
		sx = 1
	}
	if a.Y < b.Y {
		sy = 1
	}
	out := make([]image.Point, 0, max(dx, -dy)+1)
	x, y := a.X, a.Y
	err := dx + dy
	for {
		out = append(out, image.Pt(x, y))
		if x == b.X && y == b.Y {
			return out
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// Polyline joins consecutive points with Line without repeating the shared
// vertices.
func Polyline(pts []image.Point) []image.Point {
	if len(pts) < 2 {
		return append([]image.Point(nil), pts...)
	}
	out := []image.Point{pts[0]}
	for i := 1; i < len(pts); i++ {
		out = append(out, Line(pts[i-1], pts[i])[1:]...)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
