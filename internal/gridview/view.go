package gridview

import (
	"image"

	"github.com/example/tilesmith/internal/layers"
)

// View holds the nine display surfaces. Every surface is a byte-identical
// copy of the latest composite; mirrors are never painted independently.
type View struct {
	dim      int
	surfaces [9]*image.NRGBA
	disabled [9]bool
	// Refreshes counts composites, for diagnostics.
	Refreshes int
}

// NewView allocates nine transparent dim×dim surfaces.
func NewView(dim int) *View {
	v := &View{}
	v.alloc(dim)
	return v
}

func (v *View) alloc(dim int) {
	v.dim = dim
	for i := range v.surfaces {
		v.surfaces[i] = image.NewNRGBA(image.Rect(0, 0, dim, dim))
	}
}

// Dim returns the current surface size.
func (v *View) Dim() int { return v.dim }

// Refresh composites s once into the centre surface and copies the result
// into the eight mirrors. Surfaces are reallocated when the tile size changed.
func (v *View) Refresh(s *layers.Stack) {
	if s.Dim() != v.dim {
		v.alloc(s.Dim())
	}
	centre := v.surfaces[Centre.Index()]
	s.CompositeInto(centre)
	for _, dst := range v.surfaces {
		if dst != centre {
			copy(dst.Pix, centre.Pix)
		}
	}
	v.Refreshes++
}

// Surface returns the display surface at o, or nil when o is not in the grid.
func (v *View) Surface(o Offset) *image.NRGBA {
	i := o.Index()
	if i < 0 {
		return nil
	}
	return v.surfaces[i]
}

// Composite returns the centre surface.
func (v *View) Composite() *image.NRGBA { return v.surfaces[Centre.Index()] }

// MirrorEnabled reports the presentation flag of the surface at o. The
// centre is always enabled. The flag never affects pixel content.
func (v *View) MirrorEnabled(o Offset) bool {
	i := o.Index()
	return i >= 0 && !v.disabled[i]
}

// ToggleMirror flips the presentation flag of a mirror and returns the new
// value. The centre cannot be toggled.
func (v *View) ToggleMirror(o Offset) bool {
	i := o.Index()
	if i < 0 || o == Centre {
		return v.MirrorEnabled(o)
	}
	v.disabled[i] = !v.disabled[i]
	return !v.disabled[i]
}

// ResetMirrors enables every mirror.
func (v *View) ResetMirrors() {
	v.disabled = [9]bool{}
}

// Mirrors returns the enabled mirror offsets row-major, excluding the centre.
func (v *View) Mirrors() []Offset {
	var out []Offset
	for i, o := range offsets {
		if o != Centre && !v.disabled[i] {
			out = append(out, o)
		}
	}
	return out
}
