// Package notify turns editor events into desktop notifications.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/example/tilesmith/internal/config"
	"github.com/example/tilesmith/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventWarning reports a rejected editor operation, such as adding a
	// layer past the limit.
	EventWarning Event = "warning"
	// EventInfo reports a completed editor operation.
	EventInfo Event = "info"
	// EventSave emits a notification when a project is written to disk.
	EventSave Event = "save"
	// EventExport emits a notification when an image is exported.
	EventExport Event = "export"
	// EventCopy emits a notification when the tile is copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
	Urgency  platform.Urgency
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Tilesmith",
		Events: map[Event]EventPreference{
			EventWarning: {Template: "%s", Urgency: platform.UrgencyCritical},
			EventInfo:    {Template: "%s", Urgency: platform.UrgencyLow},
			EventSave:    {Template: "Saved %s", Urgency: platform.UrgencyNormal},
			EventExport:  {Template: "Exported %s", Urgency: platform.UrgencyNormal},
			EventCopy:    {Template: "Copied %s to clipboard", Urgency: platform.UrgencyLow},
		},
	}
}

// LoadPreferences reads configuration from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("TILESMITH_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("TILESMITH_NOTIFY_SAVE_TEXT", EventSave)
	apply("TILESMITH_NOTIFY_EXPORT_TEXT", EventExport)
	apply("TILESMITH_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// Sender delivers one notification. platform.Notify is the default.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
// A nil *Notifier is valid and sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
	log     *zap.Logger
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify, log: zap.NewNop()}
}

// FromConfig builds a Notifier with events enabled per the [notify] section.
func FromConfig(cfg *config.Config, log *zap.Logger) *Notifier {
	n := New(LoadPreferences())
	n.SetLogger(log)
	n.Enable(EventWarning, cfg.Notify.Warning)
	n.Enable(EventSave, cfg.Notify.Save)
	n.Enable(EventExport, cfg.Notify.Export)
	n.Enable(EventCopy, cfg.Notify.Copy)
	return n
}

// SetLogger routes delivery failures to log.
func (n *Notifier) SetLogger(log *zap.Logger) {
	if n != nil && log != nil {
		n.log = log
	}
}

// SetSender replaces the delivery function.
func (n *Notifier) SetSender(s Sender) {
	if n != nil && s != nil {
		n.send = s
	}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Warn reports a rejected operation.
func (n *Notifier) Warn(msg string) {
	n.dispatch(EventWarning, msg, platform.Options{})
}

// Info reports a completed operation.
func (n *Notifier) Info(msg string) {
	n.dispatch(EventInfo, msg, platform.Options{})
}

// Save sends a save notification including the written filename when available.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
	}
	n.dispatch(EventSave, detail, platform.Options{})
}

// Export sends an export notification using the exported image as icon when
// it is readable.
func (n *Notifier) Export(path string, img image.Image) {
	if !n.enabledFor(EventExport) {
		return
	}
	opts := platform.Options{}
	detail := strings.TrimSpace(path)
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
	}
	if img != nil {
		if p, cleanup, err := createPreview(img); err != nil {
			n.log.Warn("notification preview", zap.Error(err))
		} else {
			defer cleanup()
			opts.IconPath = p
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "tile"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	pref := n.prefs.Events[event]
	template := strings.TrimSpace(pref.Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	opts.Urgency = pref.Urgency
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.log.Warn("notification", zap.String("event", string(event)), zap.Error(err))
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "tilesmith-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}
