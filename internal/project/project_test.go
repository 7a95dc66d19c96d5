package project

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/tilesmith/internal/brush"
	"github.com/example/tilesmith/internal/config"
	"github.com/example/tilesmith/internal/session"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func newSession(dim int) *session.Session {
	cfg := config.New()
	cfg.TileDim = dim
	cfg.PixelSize = 4
	return session.New(session.WithConfig(cfg))
}

func paintedSession(t *testing.T) *session.Session {
	t.Helper()
	s := newSession(16)
	s.SetColor(red)
	if err := s.Paint(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.AddLayer("Top"); err != nil {
		t.Fatal(err)
	}
	s.SetColor(blue)
	if err := s.Paint(3, 3); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLayerOpacity(1, 0.5); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBrushRadius(2); err != nil {
		t.Fatal(err)
	}
	s.SetTool(brush.Brush)
	return s
}

func pngURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestCaptureApplyRoundTrip(t *testing.T) {
	src := paintedSession(t)
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc, err := Capture(src, ts)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Version != Version || !doc.Timestamp.Equal(ts) {
		t.Fatalf("header = %q %v", doc.Version, doc.Timestamp)
	}
	if doc.Settings.TileDim != 16 || doc.Settings.CanvasSize.Width != 64 {
		t.Fatalf("settings = %+v", doc.Settings)
	}
	if doc.Settings.CurrentColor != "#0000ff" || doc.Settings.Tool != "brush" {
		t.Fatalf("tool settings = %+v", doc.Settings)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}

	dst := newSession(32)
	if err := Apply(dst, got); err != nil {
		t.Fatal(err)
	}
	if dst.Stack().Dim() != 16 || dst.Stack().Len() != 2 {
		t.Fatalf("dim=%d len=%d", dst.Stack().Dim(), dst.Stack().Len())
	}
	if dst.Stack().ActiveIndex() != 1 || dst.Stack().Layers()[1].Name != "Top" {
		t.Fatalf("active=%d", dst.Stack().ActiveIndex())
	}
	if dst.Stack().Layers()[1].Opacity != 0.5 {
		t.Fatalf("opacity = %v", dst.Stack().Layers()[1].Opacity)
	}
	if c, _ := dst.Stack().Layers()[0].Surface.At(1, 2); c != red {
		t.Fatalf("bottom pixel = %v", c)
	}
	if c, _ := dst.Stack().Layers()[1].Surface.At(3, 3); c != blue {
		t.Fatalf("top pixel = %v", c)
	}
	tools := dst.Tools()
	if tools.Color != blue || tools.Radius != 2 || tools.Tool != brush.Brush {
		t.Fatalf("tools = %+v", tools)
	}
	if dst.Dirty() || dst.History().CanUndo() {
		t.Fatal("loaded project should be clean with a fresh history")
	}
}

func TestDecodeRejectsVersion(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"version":"2.0","layers":[]}`))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("err = %v", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader(`not json`))
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyDisplayResolutionLayers(t *testing.T) {
	// 8×8 tile stored at pixel size 4.
	big := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 4; y < 8; y++ {
		for x := 8; x < 12; x++ {
			big.SetNRGBA(x, y, red)
		}
	}
	doc := &Document{
		Version:  Version,
		Settings: Settings{TileDim: 8, PixelSize: 4, CurrentColor: "#ff0000"},
		Layers:   []LayerData{{Name: "Layer 1", Visible: true, ImageData: pngURL(t, big)}},
	}
	s := newSession(32)
	if err := Apply(s, doc); err != nil {
		t.Fatal(err)
	}
	if c, _ := s.Stack().Layers()[0].Surface.At(2, 1); c != red {
		t.Fatalf("reduced pixel = %v", c)
	}
	if c, _ := s.Stack().Layers()[0].Surface.At(0, 0); c.A != 0 {
		t.Fatalf("expected transparent, got %v", c)
	}
}

func TestApplyMissingOpacity(t *testing.T) {
	doc, err := Capture(paintedSession(t), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	delete(raw["settings"].(map[string]any), "opacity")
	for _, l := range raw["layers"].([]any) {
		delete(l.(map[string]any), "opacity")
	}
	stripped, err := json.Marshal(raw)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(bytes.NewReader(stripped))
	if err != nil {
		t.Fatal(err)
	}

	s := newSession(16)
	s.SetOpacity(0.75)
	if err := Apply(s, got); err != nil {
		t.Fatal(err)
	}
	if o := s.Tools().Opacity; o != 0.75 {
		t.Fatalf("tool opacity = %v, want it kept at 0.75", o)
	}
	for i, l := range s.Stack().Layers() {
		if l.Opacity != 1 {
			t.Fatalf("layer %d opacity = %v, want 1", i, l.Opacity)
		}
	}
	s.SetTool(brush.Pencil)
	s.SetColor(red)
	if err := s.SelectLayer(0); err != nil {
		t.Fatal(err)
	}
	if err := s.Paint(5, 5); err != nil {
		t.Fatal(err)
	}
	if c := s.Composite().NRGBAAt(5, 5); c.A == 0 {
		t.Fatalf("paint after load left %v", c)
	}
}

func TestApplyIsAllOrNothing(t *testing.T) {
	good := pngURL(t, image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	bad := pngURL(t, image.NewNRGBA(image.Rect(0, 0, 5, 5)))
	tests := []struct {
		name string
		doc  Document
	}{
		{"bad layer size", Document{Version: Version, Settings: Settings{TileDim: 8, PixelSize: 1}, Layers: []LayerData{{ImageData: good}, {ImageData: bad}}}},
		{"not a data url", Document{Version: Version, Settings: Settings{TileDim: 8, PixelSize: 1}, Layers: []LayerData{{ImageData: "hello"}}}},
		{"bad colour", Document{Version: Version, Settings: Settings{TileDim: 8, CurrentColor: "#zzz"}, Layers: []LayerData{{ImageData: good}}}},
		{"bad tool", Document{Version: Version, Settings: Settings{TileDim: 8, Tool: "spray"}, Layers: []LayerData{{ImageData: good}}}},
		{"tile too small", Document{Version: Version, Settings: Settings{TileDim: 4}, Layers: []LayerData{{ImageData: good}}}},
		{"no layers", Document{Version: Version, Settings: Settings{TileDim: 8}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := paintedSession(t)
			before := s.Composite()
			err := Apply(s, &tt.doc)
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("err = %v", err)
			}
			if s.Stack().Dim() != 16 || s.Stack().Len() != 2 {
				t.Fatal("stack changed")
			}
			if !bytes.Equal(before.Pix, s.Composite().Pix) {
				t.Fatal("pixels changed")
			}
		})
	}
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tile"+Extension)
	doc, err := Capture(paintedSession(t), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := SaveFile(path, doc); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the project file, got %d entries", len(entries))
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Layers) != 2 || got.Layers[1].Name != "Top" {
		t.Fatalf("layers = %+v", got.Layers)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}
