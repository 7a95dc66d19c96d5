// Package project reads and writes the versioned JSON project document.
//
// The document layout is shared with the browser edition of the editor:
// layer pixels travel as PNG data URLs, and files written there at display
// resolution (tileDim×pixelSize) are reduced to one pixel per cell on load.
package project

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/example/tilesmith/internal/brush"
	"github.com/example/tilesmith/internal/config"
	"github.com/example/tilesmith/internal/layers"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/raster"
	"github.com/example/tilesmith/internal/session"
)

// Version is the only document version this package reads or writes.
const Version = "1.0"

var (
	// ErrUnsupportedVersion is returned for documents of any other version.
	ErrUnsupportedVersion = errors.New("unsupported project version")
	// ErrCorrupt is returned for documents that cannot be parsed or whose
	// contents fail validation.
	ErrCorrupt = errors.New("corrupt project")
)

const dataURLPrefix = "data:image/png;base64,"

// Document is the persisted project.
type Document struct {
	Version     string      `json:"version"`
	Timestamp   time.Time   `json:"timestamp"`
	Settings    Settings    `json:"settings"`
	Palette     []string    `json:"palette"`
	Layers      []LayerData `json:"layers"`
	ActiveLayer int         `json:"activeLayer,omitempty"`
}

// Settings holds tool and view settings. A missing opacity leaves the
// session's tool opacity unchanged.
type Settings struct {
	BrushSize    int      `json:"brushSize"`
	Opacity      *float64 `json:"opacity,omitempty"`
	CurrentColor string   `json:"currentColor"`
	Tool         string   `json:"tool,omitempty"`
	CanvasSize   *Size    `json:"canvasSize,omitempty"`
	TileDim      int      `json:"tileDim"`
	PixelSize    int      `json:"pixelSize"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// LayerData is one persisted layer. A missing opacity reads as 1.
type LayerData struct {
	Name      string   `json:"name"`
	Visible   bool     `json:"visible"`
	Opacity   *float64 `json:"opacity,omitempty"`
	ImageData string   `json:"imageData"`
}

func opacityOf(v *float64) float64 {
	if v == nil {
		return 1
	}
	return *v
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	return nil
}

// Decode parses a document and checks its version. Layer images are not
// decoded until Apply.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedVersion, doc.Version)
	}
	return &doc, nil
}

// Capture builds a document from the current session state.
func Capture(s *session.Session, now time.Time) (*Document, error) {
	recs, err := s.Stack().Records()
	if err != nil {
		return nil, err
	}
	ts := s.Tools()
	cfg := s.Config()
	display := cfg.TileDim * cfg.PixelSize
	doc := &Document{
		Version:   Version,
		Timestamp: now.UTC(),
		Settings: Settings{
			BrushSize:    ts.Radius,
			Opacity:      &ts.Opacity,
			CurrentColor: palette.Hex(ts.Color),
			Tool:         ts.Tool.String(),
			CanvasSize:   &Size{Width: display, Height: display},
			TileDim:      s.Stack().Dim(),
			PixelSize:    cfg.PixelSize,
		},
		Palette:     s.Palette().Strings(),
		ActiveLayer: s.Stack().ActiveIndex(),
	}
	for _, r := range recs {
		doc.Layers = append(doc.Layers, LayerData{
			Name:      r.Name,
			Visible:   r.Visible,
			Opacity:   &r.Opacity,
			ImageData: dataURLPrefix + base64.StdEncoding.EncodeToString(r.PNG),
		})
	}
	return doc, nil
}

// Apply loads doc into s. Every field and layer image is validated before
// the session is touched; on error s is unchanged.
func Apply(s *session.Session, doc *Document) error {
	if doc.Version != Version {
		return fmt.Errorf("%w %q", ErrUnsupportedVersion, doc.Version)
	}
	dim := doc.Settings.TileDim
	if dim == 0 {
		dim = config.DefaultTileDim
	}
	if err := config.ValidateTileDimension(dim); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	pixelSize := doc.Settings.PixelSize
	if pixelSize < 1 {
		pixelSize = s.Config().PixelSize
	}

	ts := s.Tools()
	if doc.Settings.CurrentColor != "" {
		c, err := palette.ParseColor(doc.Settings.CurrentColor)
		if err != nil {
			return fmt.Errorf("%w: current color: %w", ErrCorrupt, err)
		}
		ts.Color = c
	}
	if doc.Settings.BrushSize < 0 {
		return fmt.Errorf("%w: brush size %d", ErrCorrupt, doc.Settings.BrushSize)
	}
	ts.Radius = doc.Settings.BrushSize
	if doc.Settings.Tool != "" {
		t, err := brush.ParseTool(doc.Settings.Tool)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		ts.Tool = t
	}

	recs := make([]layers.Record, 0, len(doc.Layers))
	for i, l := range doc.Layers {
		pngData, err := layerPNG(l.ImageData, dim, pixelSize)
		if err != nil {
			return fmt.Errorf("%w: layer %d %q: %w", ErrCorrupt, i, l.Name, err)
		}
		recs = append(recs, layers.Record{Name: l.Name, Visible: l.Visible, Opacity: opacityOf(l.Opacity), PNG: pngData})
	}
	if err := s.Load(dim, recs, doc.ActiveLayer); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	s.SetTool(ts.Tool)
	s.SetColor(ts.Color)
	_ = s.SetBrushRadius(ts.Radius)
	if doc.Settings.Opacity != nil {
		s.SetOpacity(*doc.Settings.Opacity)
	}
	if doc.Palette != nil {
		s.Palette().Import(doc.Palette)
	}
	s.MarkSaved()
	return nil
}

// layerPNG returns the PNG bytes of a dim×dim layer. Images at display
// resolution are reduced with nearest-neighbour sampling.
func layerPNG(url string, dim, pixelSize int) ([]byte, error) {
	if !strings.HasPrefix(url, dataURLPrefix) {
		return nil, fmt.Errorf("expected a PNG data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, dataURLPrefix))
	if err != nil {
		return nil, err
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	switch {
	case cfg.Width == dim && cfg.Height == dim:
		return raw, nil
	case cfg.Width == dim*pixelSize && cfg.Height == dim*pixelSize:
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		small := image.NewNRGBA(image.Rect(0, 0, dim, dim))
		xdraw.NearestNeighbor.Scale(small, small.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		var buf bytes.Buffer
		if err := png.Encode(&buf, small); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%dx%d image for a %d tile: %w", cfg.Width, cfg.Height, dim, raster.ErrDimensionMismatch)
}
