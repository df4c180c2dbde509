package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/metrics"
)

// envelope is the wire format for admin notifications
type envelope struct {
	Type        string      `json:"type"`
	AggregateID string      `json:"aggregateId"`
	OccurredAt  time.Time   `json:"occurredAt"`
	Payload     interface{} `json:"payload"`
}

// KafkaNotifier publishes domain events to the admin notification
// topic. Delivery is best effort; a failed publish is logged and
// counted but never propagated to the caller.
type KafkaNotifier struct {
	writer  *kafka.Writer
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewKafkaNotifier creates a notifier writing to the given brokers
func NewKafkaNotifier(brokers []string, topic string, logger *logging.Logger, m *metrics.Metrics) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaNotifier{
		writer:  writer,
		logger:  logger.WithComponent("kafka-notifier"),
		metrics: m,
	}
}

// Publish sends the event to the notification topic, keyed by
// aggregate ID so events for one shipment stay ordered
func (n *KafkaNotifier) Publish(ctx context.Context, event domain.DomainEvent) {
	payload, err := json.Marshal(envelope{
		Type:        event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.Timestamp(),
		Payload:     event,
	})
	if err != nil {
		n.logger.Error("failed to marshal notification",
			"eventType", event.EventType(),
			"error", err.Error(),
		)
		return
	}

	// Detach from the request context so an already-answered request
	// does not cancel the publish
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err = n.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(event.AggregateID()),
		Value: payload,
	})

	if n.metrics != nil {
		n.metrics.RecordNotification(err == nil)
	}

	if err != nil {
		n.logger.Warn("failed to publish notification",
			"eventType", event.EventType(),
			"aggregateId", event.AggregateID(),
			"error", err.Error(),
		)
		return
	}

	n.logger.Debug("notification published",
		"eventType", event.EventType(),
		"aggregateId", event.AggregateID(),
	)
}

// Close flushes and closes the underlying writer
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
