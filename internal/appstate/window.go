package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/tilesmith/internal/gridview"
	"github.com/example/tilesmith/internal/render"
	"github.com/example/tilesmith/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var (
	faceOnce   sync.Once
	statusFace font.Face
)

// loadStatusFace returns Go Regular, falling back to the fixed bitmap face
// when it cannot be parsed.
func loadStatusFace(log *zap.Logger) font.Face {
	faceOnce.Do(func() {
		statusFace = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Warn("parse status font", zap.Error(err))
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 13, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Warn("status font face", zap.Error(err))
			return
		}
		statusFace = face
	})
	return statusFace
}

// frame is everything drawFrame needs, copied out from under the lock.
type frame struct {
	layout   layout
	surfaces [9]*image.NRGBA
	mirrors  [9]bool
	cell     float64
	radius   int
	hover    gridview.Pointer
	hovering bool
	status   string
	message  string
	warning  bool
	theme    *theme.Theme
}

// snapshot copies the paint state. It takes mu.
func (a *AppState) snapshot(width, height int) frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	g := a.sess.Geometry()
	fr := frame{
		layout:   newLayout(width, height, g),
		cell:     g.CellSize(),
		radius:   a.sess.Tools().Radius,
		hover:    a.hover,
		hovering: a.hovering,
		status:   a.statusLine(),
		theme:    a.theme,
	}
	view := a.sess.View()
	for i, o := range gridview.Offsets() {
		fr.surfaces[i] = cloneNRGBA(view.Surface(o))
		fr.mirrors[i] = view.MirrorEnabled(o)
	}
	if a.message != "" && a.now().Before(a.messageUntil) {
		fr.message = a.message
		fr.warning = a.warning
	}
	return fr
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	a.mu.Lock()
	sz := windowSize(a.sess.Geometry())
	a.mu.Unlock()
	width, height := max(sz.X, 480), max(sz.Y, 360)

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Tilesmith"})
	if err != nil {
		a.log.Error("new window", zap.Error(err))
		return
	}
	defer w.Release()
	defer a.notifyClose()
	face := loadStatusFace(a.log)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	if a.autosave > 0 {
		go a.autosaveLoop(done, w)
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan frame, 1)
	defer close(paintCh)
	go func() {
		for fr := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, fr, face, a.log)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			fr := a.snapshot(width, height)
			select {
			case paintCh <- fr:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- fr
			}
		case mouse.Event:
			a.mu.Lock()
			l := newLayout(width, height, a.sess.Geometry())
			a.mu.Unlock()
			if a.handleMouse(l, e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			repaint, quit := a.handleKey(e)
			if quit {
				return
			}
			if repaint {
				w.Send(paint.Event{})
			}
		case error:
			a.log.Warn("window event", zap.Error(e))
		}
	}
}

func (a *AppState) autosaveLoop(done <-chan struct{}, w screen.Window) {
	t := time.NewTicker(a.autosave)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			a.mu.Lock()
			if a.sess.Dirty() && a.Output != "" {
				if err := a.save(true); err != nil {
					a.log.Warn("autosave", zap.Error(err))
				}
			}
			a.mu.Unlock()
			w.Send(paint.Event{})
		case <-done:
			return
		}
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, fr frame, face font.Face, log *zap.Logger) {
	l := fr.layout
	b, err := s.NewBuffer(image.Point{l.width, l.height})
	if err != nil {
		log.Warn("new buffer", zap.Error(err))
		return
	}
	defer b.Release()
	dst := b.RGBA()
	th := fr.theme

	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)
	checker := max(4, int(math.Round(fr.cell)))
	for i, o := range gridview.Offsets() {
		if ctx.Err() != nil {
			return
		}
		r := l.surfaceRect(o)
		render.Checker(dst, r, checker, th.CheckerLight, th.CheckerDark)
		src := fr.surfaces[i]
		xdraw.NearestNeighbor.Scale(dst, r, src, src.Bounds(), draw.Over, nil)
		if !fr.mirrors[i] {
			render.Tint(dst, r, th.MirrorTint)
		}
		render.Outline(dst, r, th.GridLine)
	}
	render.Outline(dst, l.surfaceRect(gridview.Centre), th.CentreBorder)

	if fr.hovering {
		drawCursor(dst, l, fr)
	}
	if ctx.Err() != nil {
		return
	}

	sr := l.statusRect()
	draw.Draw(dst, sr, image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	text := fr.status
	col := color.Color(th.StatusText)
	if fr.message != "" {
		text = fr.message
		if fr.warning {
			col = th.StatusWarning
		}
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face,
		Dot: fixed.P(sr.Min.X+6, sr.Max.Y-7)}
	d.DrawString(text)

	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// drawCursor outlines the brush footprint under the pointer.
func drawCursor(dst *image.RGBA, l layout, fr frame) {
	if fr.cell <= 0 {
		return
	}
	r := l.surfaceRect(fr.hover.Offset)
	cx := int(math.Floor(fr.hover.X / fr.cell))
	cy := int(math.Floor(fr.hover.Y / fr.cell))
	x0 := r.Min.X + int(float64(cx-fr.radius)*fr.cell)
	y0 := r.Min.Y + int(float64(cy-fr.radius)*fr.cell)
	x1 := r.Min.X + int(float64(cx+fr.radius+1)*fr.cell)
	y1 := r.Min.Y + int(float64(cy+fr.radius+1)*fr.cell)
	render.Outline(dst, image.Rect(x0, y0, x1, y1).Intersect(l.grid()), fr.theme.CursorOutline)
}
