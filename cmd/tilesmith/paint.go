package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"

	"github.com/example/tilesmith/internal/brush"
	"github.com/example/tilesmith/internal/clipboard"
	"github.com/example/tilesmith/internal/config"
	"github.com/example/tilesmith/internal/gridview"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/session"
)

// newCmd creates a blank project file.
type newCmd struct {
	*projectCmd
	size  int
	force bool
}

func parseNewCmd(args []string, r *root) (*newCmd, error) {
	c := &newCmd{projectCmd: newProjectCmd(r, "new")}
	c.fs.IntVar(&c.size, "size", r.config.TileDim, fmt.Sprintf("tile size in cells (%d-%d)", config.MinTileDim, config.MaxTileDim))
	c.fs.BoolVar(&c.force, "force", false, "overwrite an existing file")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if c.file == "" && len(c.args) == 1 {
		c.file = c.args[0]
	}
	if c.file == "" {
		return nil, &UsageError{of: c}
	}
	if err := config.ValidateTileDimension(c.size); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *newCmd) Run() error {
	if !c.force {
		if _, err := os.Stat(c.file); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", c.file)
		}
	}
	s := c.root.newSession()
	if err := s.SetTileDimension(c.size); err != nil {
		return err
	}
	if err := c.root.saveProject(s, c.file); err != nil {
		return err
	}
	fmt.Fprintf(c.root.stdout, "created %s (%dx%d)\n", c.file, c.size, c.size)
	return nil
}

func parseInfoCmd(args []string, r *root) (*projectCmd, error) {
	c := newProjectCmd(r, "info")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	c.run = func(s *session.Session) (bool, error) {
		w := r.stdout
		st := s.Stack()
		ts := s.Tools()
		fmt.Fprintf(w, "tile:    %dx%d\n", st.Dim(), st.Dim())
		fmt.Fprintf(w, "tool:    %s radius=%d opacity=%.2f color=%s\n", ts.Tool, ts.Radius, ts.Opacity, palette.Hex(ts.Color))
		fmt.Fprintf(w, "layers:  %d/%d\n", st.Len(), st.Max())
		printLayers(r, s)
		fmt.Fprintf(w, "palette: %v\n", s.Palette().Strings())
		return false, nil
	}
	return c, nil
}

// toolFlags are the brush settings shared by paint and erase.
type toolFlags struct {
	color   string
	tool    string
	radius  int
	opacity float64
	layer   int
}

func (t *toolFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&t.color, "color", "", "paint color name or hex value (default: the project's current color)")
	fs.StringVar(&t.tool, "tool", "", "pencil, brush or eraser (default: the project's current tool)")
	fs.IntVar(&t.radius, "radius", -1, "brush radius in cells")
	fs.Float64Var(&t.opacity, "opacity", -1, "paint opacity from 0 to 1")
	fs.IntVar(&t.layer, "layer", -1, "layer index to paint on (default: the active layer)")
}

// apply updates the session's tool state from the flags that were set.
func (t *toolFlags) apply(s *session.Session) error {
	if t.layer >= 0 {
		if err := s.SelectLayer(t.layer); err != nil {
			return err
		}
	}
	if t.color != "" {
		c, err := palette.ParseColor(t.color)
		if err != nil {
			return err
		}
		s.SetColor(c)
	}
	if t.tool != "" {
		tool, err := brush.ParseTool(t.tool)
		if err != nil {
			return err
		}
		s.SetTool(tool)
	}
	if t.radius >= 0 {
		if err := s.SetBrushRadius(t.radius); err != nil {
			return err
		}
	}
	if t.opacity >= 0 {
		s.SetOpacity(t.opacity)
	}
	return nil
}

// parsePaintCmd builds paint and erase. Points are in tile cells and may
// fall outside the tile; they wrap.
func parsePaintCmd(args []string, r *root, erase bool) (*projectCmd, error) {
	name := "paint"
	if erase {
		name = "erase"
	}
	c := newProjectCmd(r, name)
	c.template = "paint.txt"
	var tf toolFlags
	var line bool
	tf.register(c.fs)
	c.fs.BoolVar(&line, "line", false, "join the points with straight lines")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if len(c.args) == 0 {
		return nil, &UsageError{of: c}
	}
	pts, err := parsePoints(c.args)
	if err != nil {
		return nil, err
	}
	if line {
		pts = brush.Polyline(pts)
	}
	c.run = func(s *session.Session) (bool, error) {
		if err := tf.apply(s); err != nil {
			return false, err
		}
		if s.Tools().Tool == brush.Eyedropper && !erase {
			return false, errors.New("the eyedropper does not paint; use pick")
		}
		if err := s.PaintLine(pts, erase); err != nil {
			return false, err
		}
		return true, nil
	}
	return c, nil
}

func parsePickCmd(args []string, r *root) (*projectCmd, error) {
	c := newProjectCmd(r, "pick")
	var keep bool
	c.fs.BoolVar(&keep, "save", false, "also add the color to the palette")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if len(c.args) != 1 {
		return nil, &UsageError{of: c}
	}
	pt, err := parsePoint(c.args[0])
	if err != nil {
		return nil, err
	}
	c.run = func(s *session.Session) (bool, error) {
		col := s.PickColor(pt)
		fmt.Fprintln(r.stdout, palette.Hex(col))
		if keep {
			s.SaveColor()
		}
		return true, nil
	}
	return c, nil
}

func parseClearCmd(args []string, r *root) (*projectCmd, error) {
	c := newProjectCmd(r, "clear")
	layer := c.fs.Int("layer", -1, "layer index to clear (default: the active layer)")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	c.run = func(s *session.Session) (bool, error) {
		if *layer >= 0 {
			if err := s.SelectLayer(*layer); err != nil {
				return false, err
			}
		}
		s.ClearActiveLayer()
		return true, nil
	}
	return c, nil
}

func parseResizeCmd(args []string, r *root) (*projectCmd, error) {
	c := newProjectCmd(r, "resize")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if len(c.args) != 1 {
		return nil, &UsageError{of: c}
	}
	n, err := strconv.Atoi(c.args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid size %q", c.args[0])
	}
	c.run = func(s *session.Session) (bool, error) {
		if err := s.SetTileDimension(n); err != nil {
			return false, err
		}
		return true, nil
	}
	return c, nil
}

func parseImportCmd(args []string, r *root) (*projectCmd, error) {
	c := newProjectCmd(r, "import")
	var fromClipboard bool
	layer := c.fs.Int("layer", -1, "layer index to replace (default: the active layer)")
	c.fs.BoolVar(&fromClipboard, "from-clipboard", false, "read the image from the clipboard")
	c.fs.BoolVar(&fromClipboard, "from-clip", false, "read the image from the clipboard (alias)")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if fromClipboard == (len(c.args) == 1) || len(c.args) > 1 {
		return nil, &UsageError{of: c}
	}
	c.run = func(s *session.Session) (bool, error) {
		img, err := readImage(fromClipboard, c.args)
		if err != nil {
			return false, err
		}
		if *layer >= 0 {
			if err := s.SelectLayer(*layer); err != nil {
				return false, err
			}
		}
		if err := s.ImportImage(img); err != nil {
			return false, err
		}
		return true, nil
	}
	return c, nil
}

func readImage(fromClipboard bool, args []string) (image.Image, error) {
	if fromClipboard {
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard: %w", err)
		}
		return img, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := gridview.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", args[0], err)
	}
	return img, nil
}
