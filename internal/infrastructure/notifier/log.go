// Package notifier provides delivery channels for workflow notifications.
package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/printflow/backend/internal/application/notify"
)

// Ensure LogNotifier implements Notifier
var _ notify.Notifier = (*LogNotifier)(nil)

// LogNotifier writes notifications to the structured log. It stands in
// for a real channel (email, chat) in development and tests.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that logs each notification
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notifier")}
}

// Notify logs the notification at info level
func (n *LogNotifier) Notify(ctx context.Context, notification notify.Notification) error {
	n.logger.Info("Notification",
		zap.String("topic", notification.Topic),
		zap.String("subject", notification.Subject),
		zap.String("body", notification.Body),
		zap.String("aggregate_id", notification.AggregateID.String()),
	)
	return nil
}
