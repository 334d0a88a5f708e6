package notification

import (
	"context"
	"log/slog"
)

// Notifier pushes a notification to an external channel (email, push, webhook).
// Delivery is best effort; the inbox entry is the source of truth.
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
}

// LogNotifier writes deliveries to the log. Stands in until a real channel is
// wired up.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (ln *LogNotifier) Notify(ctx context.Context, n *Notification) error {
	ln.logger.Info("notification delivered",
		"notification_id", n.ID,
		"client_id", n.ClientID,
		"kind", n.Kind,
		"title", n.Title)
	return nil
}
