// Package session owns one editing session: tool state, the layer stack,
// undo history and the 3×3 view. Every editor surface, desktop window or
// CLI, drives the tile through a Session.
//
// A Session is not safe for concurrent use; callers that render from another
// goroutine must serialise access.
package session

import (
	"image/color"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/example/tilesmith/internal/brush"
	"github.com/example/tilesmith/internal/config"
	"github.com/example/tilesmith/internal/gridview"
	"github.com/example/tilesmith/internal/history"
	"github.com/example/tilesmith/internal/layers"
	"github.com/example/tilesmith/internal/palette"
)

// Notifier surfaces user-visible messages. It is optional.
type Notifier interface {
	Warn(msg string)
	Info(msg string)
}

const (
	MinZoom = 0.1
	MaxZoom = 50.0
	// ZoomStep is the increment used by ZoomIn and ZoomOut.
	ZoomStep = 0.1
)

// Session is an explicit editor context.
type Session struct {
	cfg      *config.Config
	tools    brush.ToolState
	stack    *layers.Stack
	hist     *history.Manager
	view     *gridview.View
	gesture  *gridview.Gesture
	palette  *palette.Palette
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
	zoom     float64
	dirty    bool
	stroke   strokeStats
}

type strokeStats struct {
	stamps int
	cells  int
}

// Option configures a Session.
type Option func(*Session)

// WithConfig supplies the configuration. The session keeps the pointer and
// updates TileDim when the tile is resized.
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithNotifier installs the message sink. A nil Notifier disables messages.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now for move throttling.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a session with one blank layer named "Layer 1" and records it
// as the history baseline.
func New(opts ...Option) *Session {
	s := &Session{
		cfg:   config.New(),
		tools: brush.DefaultToolState(),
		log:   zap.NewNop(),
		now:   time.Now,
		zoom:  1,
	}
	for _, o := range opts {
		o(s)
	}
	s.palette = palette.Default(s.cfg.PaletteSize)
	s.stack = layers.New(s.cfg.TileDim, s.cfg.MaxLayers)
	s.hist = history.New(s.cfg.HistoryLimit)
	s.view = gridview.NewView(s.cfg.TileDim)
	s.gesture = gridview.NewGesture(s.geometry(), strokeHandler{s}, s.now)
	s.gesture.Interval = time.Duration(s.cfg.ThrottleMS) * time.Millisecond
	s.hist.Reset(s.stack)
	s.refresh()
	s.log.Debug("session created", zap.Int("tile_dim", s.cfg.TileDim), zap.Int("max_layers", s.cfg.MaxLayers))
	return s
}

func (s *Session) geometry() gridview.Geometry {
	return gridview.Geometry{Dim: s.stack.Dim(), PixelSize: s.cfg.PixelSize, Zoom: s.zoom}
}

func (s *Session) refresh() {
	s.view.Refresh(s.stack)
}

func (s *Session) warn(msg string, err error) {
	s.log.Info("operation rejected", zap.String("msg", msg), zap.Error(err))
	if s.notifier != nil {
		s.notifier.Warn(msg)
	}
}

func (s *Session) info(msg string) {
	if s.notifier != nil {
		s.notifier.Info(msg)
	}
}

// commit records the current stack as a new history entry.
func (s *Session) commit() {
	s.hist.Snapshot(s.stack)
	s.dirty = true
}

// Config returns the live configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Stack exposes the layer stack for read access. Mutating it directly
// bypasses history and view refresh.
func (s *Session) Stack() *layers.Stack { return s.stack }

// View returns the nine display surfaces.
func (s *Session) View() *gridview.View { return s.view }

// Geometry returns the current pointer mapping.
func (s *Session) Geometry() gridview.Geometry { return s.gesture.Geometry }

// SetNotifier replaces the message sink.
func (s *Session) SetNotifier(n Notifier) { s.notifier = n }

func (s *Session) History() *history.Manager { return s.hist }

func (s *Session) Palette() *palette.Palette { return s.palette }

// Tools returns a copy of the tool state.
func (s *Session) Tools() brush.ToolState { return s.tools }

func (s *Session) SetTool(t brush.Tool) { s.tools.SetTool(t) }

func (s *Session) SetColor(c color.NRGBA) { s.tools.SetColor(c) }

// SetBrushRadius rejects negative radii with brush.ErrNegativeRadius.
func (s *Session) SetBrushRadius(r int) error { return s.tools.SetRadius(r) }

func (s *Session) SetOpacity(o float64) { s.tools.SetOpacity(o) }

// SaveColor adds the current colour to the palette.
func (s *Session) SaveColor() bool {
	if !s.palette.Add(s.tools.Color) {
		return false
	}
	s.info("Color " + palette.Hex(s.tools.Color) + " saved to palette")
	return true
}

// Zoom returns the display zoom factor.
func (s *Session) Zoom() float64 { return s.zoom }

// SetZoom clamps z to [MinZoom, MaxZoom] and updates the pointer mapping.
func (s *Session) SetZoom(z float64) {
	z = math.Round(z*10) / 10
	s.zoom = math.Max(MinZoom, math.Min(z, MaxZoom))
	s.gesture.Geometry = s.geometry()
}

func (s *Session) ZoomIn()    { s.SetZoom(s.zoom + ZoomStep) }
func (s *Session) ZoomOut()   { s.SetZoom(s.zoom - ZoomStep) }
func (s *Session) ResetZoom() { s.SetZoom(1) }

// Dirty reports unsaved changes since the last MarkSaved.
func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) MarkSaved() { s.dirty = false }
