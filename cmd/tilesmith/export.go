package main

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/example/tilesmith/internal/clipboard"
	"github.com/example/tilesmith/internal/gridview"
	"github.com/example/tilesmith/internal/render"
	"github.com/example/tilesmith/internal/session"
)

// exportOptions selects what is rendered from the tile.
type exportOptions struct {
	scale      int
	cols, rows int
}

func (o exportOptions) tiled() bool { return o.cols > 1 || o.rows > 1 }

func (o exportOptions) render(s *session.Session) (image.Image, error) {
	if o.tiled() {
		return render.Sheet(s.Composite(), o.cols, o.rows, o.scale)
	}
	return render.Upscale(s.Composite(), o.scale)
}

// encode writes the rendering of s in format f.
func (o exportOptions) encode(s *session.Session, f gridview.Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if o.tiled() {
		err = s.ExportTiled(&buf, f, o.cols, o.rows, o.scale)
	} else {
		err = s.ExportComposite(&buf, f, o.scale)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseTiled(spec string) (int, int, error) {
	if spec == "" {
		return 1, 1, nil
	}
	return parseGrid(spec)
}

func parseExportCmd(args []string, r *root) (*projectCmd, error) {
	c := newProjectCmd(r, "export")
	var (
		format      string
		tiled       string
		toClipboard bool
		opts        exportOptions
	)
	c.fs.StringVar(&format, "format", "", "image format: png, jpeg, bmp or tiff (default: from the output extension)")
	c.fs.IntVar(&opts.scale, "scale", 1, fmt.Sprintf("integer enlargement (1-%d)", render.MaxScale))
	c.fs.StringVar(&tiled, "tiled", "", "export a COLSxROWS sheet of repeats")
	c.fs.BoolVar(&toClipboard, "to-clipboard", false, "copy the PNG to the clipboard instead of writing a file")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if toClipboard == (len(c.args) == 1) || len(c.args) > 1 {
		return nil, &UsageError{of: c}
	}
	var err error
	if opts.cols, opts.rows, err = parseTiled(tiled); err != nil {
		return nil, err
	}
	var out string
	f := gridview.PNG
	if !toClipboard {
		out = c.args[0]
		f = gridview.FormatFromPath(out)
	}
	if format != "" {
		if f, err = gridview.ParseFormat(format); err != nil {
			return nil, err
		}
	}

	c.run = func(s *session.Session) (bool, error) {
		if toClipboard {
			img, err := opts.render(s)
			if err != nil {
				return false, err
			}
			if err := clipboard.WriteImage(img); err != nil {
				return false, fmt.Errorf("copy to clipboard: %w", err)
			}
			r.notifier.Copy("tile image")
			fmt.Fprintln(r.stdout, "copied tile to clipboard")
			return false, nil
		}
		data, err := opts.encode(s, f)
		if err != nil {
			return false, err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return false, fmt.Errorf("write %s: %w", out, err)
		}
		r.notifier.Export(out, s.Composite())
		fmt.Fprintf(r.stdout, "exported %s (%s)\n", out, f)
		return false, nil
	}
	return c, nil
}

func parseCopyCmd(args []string, r *root) (*projectCmd, error) {
	c := newProjectCmd(r, "copy")
	var (
		opts  exportOptions
		tiled string
	)
	c.fs.IntVar(&opts.scale, "scale", 1, fmt.Sprintf("integer enlargement (1-%d)", render.MaxScale))
	c.fs.StringVar(&tiled, "tiled", "", "copy a COLSxROWS sheet of repeats")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if len(c.args) != 0 {
		return nil, &UsageError{of: c}
	}
	var err error
	if opts.cols, opts.rows, err = parseTiled(tiled); err != nil {
		return nil, err
	}
	c.run = func(s *session.Session) (bool, error) {
		img, err := opts.render(s)
		if err != nil {
			return false, err
		}
		if err := clipboard.WriteImage(img); err != nil {
			return false, fmt.Errorf("copy to clipboard: %w", err)
		}
		r.notifier.Copy("tile image")
		fmt.Fprintln(r.stdout, "copied tile to clipboard")
		return false, nil
	}
	return c, nil
}
