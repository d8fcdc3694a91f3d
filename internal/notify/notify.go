// Package notify delivers fire-and-forget operator notifications for
// submission outcomes. Delivery is best-effort: failures are logged and
// never propagate to the sync path.
package notify

import (
	"log/slog"
)

// DismissAfterSeconds is the auto-dismiss hint carried in every
// notification; receivers are free to ignore it.
const DismissAfterSeconds = 5

// Notifier surfaces a titled message to the operator.
type Notifier interface {
	Notify(title, message string)
}

// LogNotifier writes notifications to the structured log. It is the default
// when no webhook is configured.
type LogNotifier struct{}

// Notify logs the notification.
func (LogNotifier) Notify(title, message string) {
	slog.Info("notification", "title", title, "message", message)
}
