package notify

import (
	"context"

	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
)

// LogNotifier writes notifications to the log stream. It stands in for
// the Kafka channel in development and when Kafka is disabled.
type LogNotifier struct {
	logger *logging.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithComponent("log-notifier")}
}

// Publish logs the event
func (n *LogNotifier) Publish(ctx context.Context, event domain.DomainEvent) {
	n.logger.WithContext(ctx).Info("notification",
		"eventType", event.EventType(),
		"aggregateId", event.AggregateID(),
		"occurredAt", event.Timestamp(),
	)
}

// Close is a no-op
func (n *LogNotifier) Close() error {
	return nil
}
