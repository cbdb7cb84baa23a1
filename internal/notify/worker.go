package notify

import (
	"context"
	"errors"
	"fmt"

	"deskhive/internal/bookings/engine"
	"deskhive/pkg/kafka"
	"deskhive/pkg/logger"
)

// DeliveryWorker consumes booking outcome notifications and delivers
// them to parties. Delivery here is a structured log line; swapping in
// email or SMS transports only changes deliver.
type DeliveryWorker struct {
	log *logger.Logger
}

func NewDeliveryWorker(log *logger.Logger) *DeliveryWorker {
	return &DeliveryWorker{log: log}
}

// Handle is the consumer entrypoint. A payload that does not decode is
// permanent; nothing downstream could ever process it.
func (w *DeliveryWorker) Handle(ctx context.Context, msg kafka.Message) error {
	var notification engine.Notification
	if err := msg.DecodeValue(&notification); err != nil {
		return kafka.NewPermanentError("failed to decode notification", err)
	}

	if notification.PartyID == "" || notification.ResourceID == "" {
		return kafka.NewPermanentError(fmt.Sprintf("notification missing party or resource: event_id=%s", msg.GetEventID()), nil)
	}

	if err := w.deliver(ctx, notification); err != nil {
		var procErr *kafka.ProcessingError
		if errors.As(err, &procErr) {
			return err
		}
		return kafka.NewTransientError("failed to deliver notification", err)
	}
	return nil
}

func (w *DeliveryWorker) deliver(_ context.Context, notification engine.Notification) error {
	switch notification.Kind {
	case engine.NotifyAccepted:
		w.log.Info("Booking confirmed",
			"party_id", notification.PartyID,
			"resource_id", notification.ResourceID,
			"booking_id", notification.BookingID,
			"date", notification.Window.Date,
			"start", notification.Window.Start,
			"end", notification.Window.End,
		)
	case engine.NotifyPromoted:
		w.log.Info("Waitlist spot granted",
			"party_id", notification.PartyID,
			"resource_id", notification.ResourceID,
			"booking_id", notification.BookingID,
			"date", notification.Window.Date,
			"start", notification.Window.Start,
			"end", notification.Window.End,
		)
	case engine.NotifyRejected:
		w.log.Info("Booking declined",
			"party_id", notification.PartyID,
			"resource_id", notification.ResourceID,
			"reason", notification.Reason,
			"date", notification.Window.Date,
			"start", notification.Window.Start,
			"end", notification.Window.End,
		)
	default:
		return kafka.NewPermanentError(fmt.Sprintf("unknown notification kind %q", notification.Kind), nil)
	}
	return nil
}
