package platform

import "time"

// AppName is reported to notification daemons as the sending application.
const AppName = "Tilesmith"

// Urgency mirrors the freedesktop urgency levels.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	Urgency  Urgency
	// Timeout of zero leaves expiry to the platform default.
	Timeout time.Duration
}
