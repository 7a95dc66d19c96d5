package session

import (
	"fmt"
	"image"
	"io"

	"github.com/example/tilesmith/internal/gridview"
	"github.com/example/tilesmith/internal/raster"
	"github.com/example/tilesmith/internal/render"
)

// Composite returns a copy of the flattened tile.
func (s *Session) Composite() *image.NRGBA {
	src := s.view.Composite()
	dst := image.NewNRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// ImportImage replaces the active layer with img scaled to fit the tile,
// centred, and records the change.
func (s *Session) ImportImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("import: empty image")
	}
	surf := raster.FromImage(img, s.stack.Dim())
	if err := s.stack.Active().Surface.CopyFrom(surf); err != nil {
		return err
	}
	s.refresh()
	s.commit()
	s.info("Image imported successfully")
	return nil
}

// ExportComposite encodes the flattened tile, enlarged by an integer scale.
func (s *Session) ExportComposite(w io.Writer, f gridview.Format, scale int) error {
	img, err := render.Upscale(s.view.Composite(), scale)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return gridview.Encode(w, img, f, 0)
}

// ExportTiled encodes cols×rows repeats of the tile, enlarged by scale.
func (s *Session) ExportTiled(w io.Writer, f gridview.Format, cols, rows, scale int) error {
	img, err := render.Sheet(s.view.Composite(), cols, rows, scale)
	if err != nil {
		return fmt.Errorf("export sheet: %w", err)
	}
	return gridview.Encode(w, img, f, 0)
}
