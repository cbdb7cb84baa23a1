package notify

import (
	"context"
	"fmt"
	"time"

	"deskhive/internal/bookings/engine"
	"deskhive/pkg/kafka"
	"deskhive/pkg/logger"
)

// KafkaNotifier publishes booking outcome notifications to the
// notifications topic. Messages are keyed by resource ID so every
// event for a resource lands on the same partition in order.
type KafkaNotifier struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, source string, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, notification engine.Notification) error {
	if notification.OccurredAt.IsZero() {
		notification.OccurredAt = time.Now().UTC()
	}

	msg := kafka.NewMessage().
		WithKey(notification.ResourceID).
		WithValue(notification).
		WithEventType(fmt.Sprintf("booking.%s", notification.Kind)).
		WithSource(n.source).
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", notification.Kind, err)
	}

	n.log.Debug("Notification published",
		"kind", notification.Kind,
		"party_id", notification.PartyID,
		"resource_id", notification.ResourceID,
	)
	return nil
}
