//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify displays a desktop notification using macOS Notification Center.
// Critical notifications play the default alert sound.
func Notify(title, body string, opts Options) error {
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", body, title, AppName)
	if opts.Urgency == UrgencyCritical {
		script += ` sound name "Basso"`
	}
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}
