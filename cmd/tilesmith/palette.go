package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/tilesmith/internal/clipboard"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/session"
)

func parsePaletteCmd(args []string, r *root) (*projectCmd, error) {
	c := newProjectCmd(r, "palette")
	var fromClipboard bool
	c.fs.BoolVar(&fromClipboard, "from-clipboard", false, "import colors from the clipboard text")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	op := "list"
	if len(c.args) > 0 {
		op = strings.ToLower(c.args[0])
	}
	rest := c.args[min(1, len(c.args)):]

	switch op {
	case "list", "ls":
		c.run = func(s *session.Session) (bool, error) {
			for i, hex := range s.Palette().Strings() {
				fmt.Fprintf(r.stdout, "%2d  %s\n", i, hex)
			}
			return false, nil
		}
	case "add":
		if len(rest) == 0 {
			return nil, fmt.Errorf("palette add requires at least one color")
		}
		cols, err := parseColors(rest)
		if err != nil {
			return nil, err
		}
		c.run = func(s *session.Session) (bool, error) {
			for _, col := range cols {
				s.Palette().Add(col)
			}
			return true, nil
		}
	case "remove", "rm":
		if len(rest) != 1 {
			return nil, fmt.Errorf("palette remove requires a swatch index")
		}
		i, err := strconv.Atoi(rest[0])
		if err != nil {
			return nil, fmt.Errorf("invalid swatch index %q", rest[0])
		}
		c.run = func(s *session.Session) (bool, error) { return true, s.Palette().Remove(i) }
	case "clear":
		c.run = func(s *session.Session) (bool, error) {
			s.Palette().Clear()
			return true, nil
		}
	case "import":
		if fromClipboard == (len(rest) > 0) {
			return nil, fmt.Errorf("palette import takes a Coolors URL, colors or -from-clipboard")
		}
		c.run = func(s *session.Session) (bool, error) {
			specs, err := importSpecs(fromClipboard, rest)
			if err != nil {
				return false, err
			}
			n := s.Palette().Import(specs)
			if n == 0 {
				return false, fmt.Errorf("no valid colors to import")
			}
			fmt.Fprintf(r.stdout, "imported %d colors\n", n)
			return true, nil
		}
	case "export":
		if len(rest) != 1 {
			return nil, fmt.Errorf("palette export requires an output file")
		}
		out := rest[0]
		c.run = func(s *session.Session) (bool, error) {
			f, err := os.Create(out)
			if err != nil {
				return false, err
			}
			name := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
			if err := palette.Save(f, name, s.Palette()); err != nil {
				f.Close()
				return false, err
			}
			return false, f.Close()
		}
	case "load":
		if len(rest) != 1 {
			return nil, fmt.Errorf("palette load requires a palette file")
		}
		in := rest[0]
		c.run = func(s *session.Session) (bool, error) {
			f, err := os.Open(in)
			if err != nil {
				return false, err
			}
			defer f.Close()
			pf, err := palette.Load(f)
			if err != nil {
				return false, fmt.Errorf("%s: %w", in, err)
			}
			n := s.Palette().Import(pf.Colors)
			fmt.Fprintf(r.stdout, "loaded %d colors from %s\n", n, in)
			return true, nil
		}
	default:
		return nil, fmt.Errorf("unknown palette command: %s", op)
	}
	return c, nil
}

// importSpecs gathers hex colours from the clipboard, a Coolors link or the
// arguments themselves.
func importSpecs(fromClipboard bool, args []string) ([]string, error) {
	if fromClipboard {
		specs, err := clipboard.ReadColors()
		if err != nil {
			return nil, fmt.Errorf("read clipboard: %w", err)
		}
		return specs, nil
	}
	if len(args) == 1 && strings.HasPrefix(args[0], "https://") {
		return palette.FromCoolorsURL(args[0])
	}
	var specs []string
	for _, a := range args {
		specs = append(specs, clipboard.SplitColors(a)...)
	}
	return specs, nil
}

func parseColors(specs []string) ([]color.NRGBA, error) {
	out := make([]color.NRGBA, 0, len(specs))
	for _, s := range specs {
		c, err := palette.ParseColor(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
