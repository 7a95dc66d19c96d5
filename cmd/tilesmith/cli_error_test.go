package main

import (
	"bytes"
	"errors"
	"flag"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/example/tilesmith/internal/config"
	"github.com/example/tilesmith/internal/project"
	"github.com/example/tilesmith/internal/theme"
)

func testRoot(t *testing.T) (*root, *bytes.Buffer) {
	t.Helper()
	cfg := config.New()
	cfg.TileDim = 8
	cfg.PixelSize = 1
	var out bytes.Buffer
	return &root{
		fs:          flag.NewFlagSet("tilesmith", flag.ContinueOnError),
		program:     "tilesmith",
		config:      cfg,
		log:         zap.NewNop(),
		stdout:      &out,
		stderr:      &bytes.Buffer{},
		activeTheme: theme.Default(),
	}, &out
}

func newProjectFile(t *testing.T, r *root) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tile"+project.Extension)
	cmd, err := parseNewCmd([]string{path}, r)
	if err != nil {
		t.Fatalf("parse new: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("new: %v", err)
	}
	return path
}

type command interface{ Run() error }

func run(t *testing.T, c command, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		flags       []string
		positionals []string
		wantErr     bool
	}{
		{"flags first", []string{"-file", "a", "1,2"}, []string{"-file", "a"}, []string{"1,2"}, false},
		{"flags after", []string{"1,2", "-file=a"}, []string{"-file=a"}, []string{"1,2"}, false},
		{"negative point", []string{"-1,-1", "-line"}, []string{"-line"}, []string{"-1,-1"}, false},
		{"negative number", []string{"-3"}, nil, []string{"-3"}, false},
		{"double dash", []string{"--", "-file"}, nil, []string{"-file"}, false},
		{"unknown flag", []string{"-nope"}, nil, nil, true},
		{"missing value", []string{"-file"}, nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.String("file", "", "")
			fs.Bool("line", false, "")
			flags, positionals, err := splitArgs(fs, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(flags, tt.flags) || !reflect.DeepEqual(positionals, tt.positionals) {
				t.Fatalf("got %q %q", flags, positionals)
			}
		})
	}
}

func TestParseGrid(t *testing.T) {
	if c, r, err := parseGrid("3X2"); err != nil || c != 3 || r != 2 {
		t.Fatalf("parseGrid = %d %d %v", c, r, err)
	}
	for _, bad := range []string{"3", "3x", "ax2"} {
		if _, _, err := parseGrid(bad); err == nil {
			t.Errorf("parseGrid(%q) should fail", bad)
		}
	}
}

func TestParseErrors(t *testing.T) {
	r, _ := testRoot(t)
	tests := []struct {
		name  string
		parse func() error
		want  string
	}{
		{"paint without points", func() error { _, err := parsePaintCmd([]string{"-file", "x"}, r, false); return err }, ""},
		{"bad point", func() error { _, err := parsePaintCmd([]string{"1;2"}, r, false); return err }, "invalid point"},
		{"bad direction", func() error { _, err := parseLayerCmd([]string{"move", "0", "sideways"}, r); return err }, "invalid direction"},
		{"unknown layer op", func() error { _, err := parseLayerCmd([]string{"explode"}, r); return err }, "unknown layer command"},
		{"resize not a number", func() error { _, err := parseResizeCmd([]string{"big"}, r); return err }, "invalid size"},
		{"new size out of range", func() error { _, err := parseNewCmd([]string{"-size", "4", "x.tile.json"}, r); return err }, "out of range"},
		{"export output and clipboard", func() error {
			_, err := parseExportCmd([]string{"-to-clipboard", "out.png"}, r)
			return err
		}, ""},
		{"export bad format", func() error { _, err := parseExportCmd([]string{"-format", "webp", "out"}, r); return err }, "unsupported image format"},
		{"palette remove without index", func() error { _, err := parsePaletteCmd([]string{"remove"}, r); return err }, "swatch index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want == "" {
				var uerr *UsageError
				if !errors.As(err, &uerr) {
					t.Fatalf("expected usage error, got %v", err)
				}
				return
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error to mention %q, got %v", tt.want, err)
			}
		})
	}
}

func TestProjectFileRequired(t *testing.T) {
	r, _ := testRoot(t)
	cmd, err := parseInfoCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "-file") {
		t.Fatalf("expected missing file error, got %v", err)
	}

	cmd, err = parseInfoCmd([]string{"-file", filepath.Join(t.TempDir(), "missing.tile.json")}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected friendly error, got %v", err)
	}
}

func TestNewRefusesOverwrite(t *testing.T) {
	r, _ := testRoot(t)
	path := newProjectFile(t, r)
	cmd, err := parseNewCmd([]string{path}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite error, got %v", err)
	}
}

func TestPaintLayerExportWorkflow(t *testing.T) {
	r, out := testRoot(t)
	path := newProjectFile(t, r)

	paint, err := parsePaintCmd([]string{"-file", path, "-color", "red", "0,0", "-1,-1"}, r, false)
	run(t, paint, err)
	layer, err := parseLayerCmd([]string{"-file", path, "add", "Top"}, r)
	run(t, layer, err)

	doc, err := project.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Layers) != 2 || doc.Layers[1].Name != "Top" || doc.ActiveLayer != 1 {
		t.Fatalf("layers = %d active = %d", len(doc.Layers), doc.ActiveLayer)
	}
	if doc.Settings.CurrentColor != "#ff0000" {
		t.Fatalf("color = %q", doc.Settings.CurrentColor)
	}

	png2 := filepath.Join(filepath.Dir(path), "tile.png")
	export, err := parseExportCmd([]string{png2, "-file", path, "-scale", "2"}, r)
	run(t, export, err)
	if !strings.Contains(out.String(), "exported "+png2) {
		t.Fatalf("stdout = %q", out.String())
	}

	f, err := os.Open(png2)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 16 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	red := color.NRGBAModel.Convert(color.NRGBA{R: 255, A: 255})
	for _, p := range [][2]int{{0, 0}, {1, 1}, {15, 15}} {
		if got := color.NRGBAModel.Convert(img.At(p[0], p[1])); got != red {
			t.Errorf("pixel %v = %v", p, got)
		}
	}
	if got := color.NRGBAModel.Convert(img.At(4, 4)).(color.NRGBA); got.A != 0 {
		t.Errorf("pixel (4,4) = %v", got)
	}
}

func TestPickPrintsColor(t *testing.T) {
	r, out := testRoot(t)
	path := newProjectFile(t, r)
	paint, err := parsePaintCmd([]string{"-file", path, "-color", "#00ff00", "3,3"}, r, false)
	run(t, paint, err)
	out.Reset()
	pick, err := parsePickCmd([]string{"-file", path, "3,3"}, r)
	run(t, pick, err)
	if got := strings.TrimSpace(out.String()); got != "#00ff00" {
		t.Fatalf("pick = %q", got)
	}
}

func TestPaletteCommands(t *testing.T) {
	r, out := testRoot(t)
	path := newProjectFile(t, r)
	dir := filepath.Dir(path)

	wipe, err := parsePaletteCmd([]string{"-file", path, "clear"}, r)
	run(t, wipe, err)
	add, err := parsePaletteCmd([]string{"-file", path, "add", "red", "#0000ff"}, r)
	run(t, add, err)
	yml := filepath.Join(dir, "warm.yaml")
	export, err := parsePaletteCmd([]string{"-file", path, "export", yml}, r)
	run(t, export, err)
	wipe, err = parsePaletteCmd([]string{"-file", path, "clear"}, r)
	run(t, wipe, err)
	load, err := parsePaletteCmd([]string{"-file", path, "load", yml}, r)
	run(t, load, err)

	out.Reset()
	list, err := parsePaletteCmd([]string{"-file", path}, r)
	run(t, list, err)
	for _, want := range []string{"#ff0000", "#0000ff"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("palette list %q missing %s", out.String(), want)
		}
	}
}

func TestInteractiveExecs(t *testing.T) {
	r, _ := testRoot(t)
	path := filepath.Join(t.TempDir(), "live"+project.Extension)
	cmd, err := parseInteractiveCmd([]string{
		"-file", path,
		"-e", "paint -color red 1,1",
		"-e", "layer add Top",
		"-e", "undo",
		"-e", "save",
		"-e", "exit",
		"-e", "layer add Ignored",
	}, r)
	run(t, cmd, err)
	if r.live != nil {
		t.Fatal("live session should be closed")
	}
	doc, err := project.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Layers) != 1 {
		t.Fatalf("layers = %d, want the added layer undone", len(doc.Layers))
	}
}

func TestInteractiveRejectsNesting(t *testing.T) {
	r, _ := testRoot(t)
	r.live = &liveSession{}
	if _, err := parseInteractiveCmd(nil, r); err == nil {
		t.Fatal("expected error")
	}
}
