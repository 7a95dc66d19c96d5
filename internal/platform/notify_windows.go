//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Notify displays a toast notification using the Windows notification center.
func Notify(title, body string, opts Options) error {
	kind := "ToastText02"
	var image string
	if icon := strings.TrimSpace(opts.IconPath); icon != "" {
		kind = "ToastImageAndText02"
		image = fmt.Sprintf(`$template.GetElementsByTagName("image").Item(0).SetAttribute("src", %s); `, psQuote(icon))
	}
	var lines []string
	lines = append(lines,
		`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null;`,
		fmt.Sprintf(`$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::%s);`, kind),
		`$texts = $template.GetElementsByTagName("text");`,
		fmt.Sprintf(`$texts.Item(0).AppendChild($template.CreateTextNode(%s)) > $null;`, psQuote(title)),
		fmt.Sprintf(`$texts.Item(1).AppendChild($template.CreateTextNode(%s)) > $null;`, psQuote(body)),
		image,
		`$toast = [Windows.UI.Notifications.ToastNotification]::new($template);`,
	)
	if opts.Urgency == UrgencyCritical {
		lines = append(lines, `$toast.Priority = [Windows.UI.Notifications.ToastNotificationPriority]::High;`)
	}
	lines = append(lines, fmt.Sprintf(`[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show($toast);`, psQuote(AppName)))
	cmd := exec.Command("powershell.exe", "-NoProfile", "-Command", strings.Join(lines, " "))
	return cmd.Run()
}
