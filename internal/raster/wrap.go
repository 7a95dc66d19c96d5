package raster

// Wrap normalises v into [0, dim) so coordinates past either edge reappear
// on the opposite side.
func Wrap(v, dim int) int {
	if dim <= 0 {
		return 0
	}
	return ((v % dim) + dim) % dim
}
