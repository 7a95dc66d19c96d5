// Package appstate runs the desktop editor window on top of a session.
package appstate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/tilesmith/internal/brush"
	"github.com/example/tilesmith/internal/clipboard"
	"github.com/example/tilesmith/internal/gridview"
	"github.com/example/tilesmith/internal/notify"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/project"
	"github.com/example/tilesmith/internal/render"
	"github.com/example/tilesmith/internal/session"
	"github.com/example/tilesmith/internal/theme"
)

const messageDuration = 2 * time.Second

// AppState owns the window's view of a session. The session is not safe for
// concurrent use, so every access goes through mu.
type AppState struct {
	mu   sync.Mutex
	sess *session.Session

	// Output is the project file written by Ctrl+S and autosave.
	Output string
	// ExportPath is the image written by Ctrl+E. It defaults to Output with
	// a .png extension.
	ExportPath string

	theme    *theme.Theme
	desktop  *notify.Notifier
	log      *zap.Logger
	autosave time.Duration
	now      func() time.Time

	message      string
	warning      bool
	messageUntil time.Time
	hover        gridview.Pointer
	hovering     bool

	updateCh  chan struct{}
	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithOutput sets the project path used when saving.
func WithOutput(path string) Option { return func(a *AppState) { a.Output = path } }

// WithExportPath sets the image path used by the export shortcut.
func WithExportPath(path string) Option { return func(a *AppState) { a.ExportPath = path } }

func WithTheme(t *theme.Theme) Option {
	return func(a *AppState) {
		if t != nil {
			a.theme = t
		}
	}
}

// WithNotifier forwards editor messages to desktop notifications.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.desktop = n } }

func WithLogger(l *zap.Logger) Option {
	return func(a *AppState) {
		if l != nil {
			a.log = l
		}
	}
}

// WithAutosave writes the project to Output every interval while there are
// unsaved changes. Zero disables autosave.
func WithAutosave(interval time.Duration) Option {
	return func(a *AppState) { a.autosave = interval }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New wraps sess and installs the AppState as its message sink.
func New(sess *session.Session, opts ...Option) *AppState {
	a := &AppState{
		sess:     sess,
		theme:    theme.Default(),
		log:      zap.NewNop(),
		now:      time.Now,
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	sess.SetNotifier(a)
	return a
}

// Do runs fn with exclusive access to the session and schedules a repaint.
func (a *AppState) Do(fn func(*session.Session)) {
	a.mu.Lock()
	fn(a.sess)
	a.mu.Unlock()
	a.NotifyChanged()
}

// NotifyChanged requests a repaint of the window.
func (a *AppState) NotifyChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

// Warn shows a warning in the status bar. The session calls it with mu held.
func (a *AppState) Warn(msg string) {
	a.show(msg, true)
	a.desktop.Warn(msg)
}

// Info shows a message in the status bar. The session calls it with mu held.
func (a *AppState) Info(msg string) {
	a.show(msg, false)
	a.desktop.Info(msg)
}

func (a *AppState) show(msg string, warning bool) {
	a.message = msg
	a.warning = warning
	a.messageUntil = a.now().Add(messageDuration)
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// exportPath returns where the export shortcut writes.
func (a *AppState) exportPath() string {
	if a.ExportPath != "" {
		return a.ExportPath
	}
	if a.Output == "" {
		return ""
	}
	base := strings.TrimSuffix(a.Output, project.Extension)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".png"
}

// save writes the project. Callers hold mu.
func (a *AppState) save(quiet bool) error {
	if a.Output == "" {
		a.Warn("No project file set")
		return fmt.Errorf("save: no output path")
	}
	doc, err := project.Capture(a.sess, a.now())
	if err != nil {
		return err
	}
	if err := project.SaveFile(a.Output, doc); err != nil {
		a.Warn("Error saving project")
		return err
	}
	a.sess.MarkSaved()
	a.log.Info("project saved", zap.String("path", a.Output), zap.Bool("autosave", quiet))
	if !quiet {
		a.show("Saved "+filepath.Base(a.Output), false)
		a.desktop.Save(a.Output)
	}
	return nil
}

// export writes the flattened tile. Callers hold mu.
func (a *AppState) export() error {
	path := a.exportPath()
	if path == "" {
		a.Warn("No export file set")
		return fmt.Errorf("export: no output path")
	}
	f, err := os.Create(path)
	if err != nil {
		a.Warn("Error exporting image")
		return err
	}
	err = a.sess.ExportComposite(f, gridview.FormatFromPath(path), 1)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		a.Warn("Error exporting image")
		return err
	}
	a.show("Exported "+filepath.Base(path), false)
	a.desktop.Export(path, a.sess.Composite())
	return nil
}

// copyTile publishes the flattened tile to the clipboard. Callers hold mu.
func (a *AppState) copyTile() error {
	img, err := render.Upscale(a.sess.Composite(), 1)
	if err != nil {
		return err
	}
	if err := clipboard.WriteImage(img); err != nil {
		a.Warn("Clipboard unavailable")
		return err
	}
	a.show("Tile copied to clipboard", false)
	a.desktop.Copy("tile")
	return nil
}

// paste imports a clipboard image into the active layer. Callers hold mu.
func (a *AppState) paste() error {
	img, err := clipboard.ReadImage()
	if err != nil {
		a.Warn("Clipboard has no image")
		return err
	}
	return a.sess.ImportImage(img)
}

// statusLine summarises the session for the status bar. Callers hold mu.
func (a *AppState) statusLine() string {
	ts := a.sess.Tools()
	st := a.sess.Stack()
	h := a.sess.History()
	var b strings.Builder
	fmt.Fprintf(&b, "%s", toolLabel(ts.Tool))
	if ts.Tool != brush.Eyedropper {
		fmt.Fprintf(&b, " r%d %d%%", ts.Radius, int(ts.Opacity*100+0.5))
	}
	fmt.Fprintf(&b, " %s | %s (%d/%d)", palette.Hex(ts.Color), st.Active().Name, st.ActiveIndex()+1, st.Len())
	if !st.Active().Visible {
		b.WriteString(" hidden")
	}
	fmt.Fprintf(&b, " | %dpx | %.1fx | %d/%d", st.Dim(), a.sess.Zoom(), h.Position()+1, h.Len())
	if a.sess.Dirty() {
		b.WriteString(" *")
	}
	return b.String()
}

func toolLabel(t brush.Tool) string {
	s := t.String()
	return strings.ToUpper(s[:1]) + s[1:]
}
