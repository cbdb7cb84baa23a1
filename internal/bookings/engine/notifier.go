package engine

import (
	"context"
	"time"

	"deskhive/pkg/model"
)

// NotificationKind classifies a booking outcome signal.
type NotificationKind string

const (
	NotifyAccepted NotificationKind = "accepted"
	NotifyRejected NotificationKind = "rejected"
	NotifyPromoted NotificationKind = "promoted"
)

// Notification is an outcome signal for a party. Delivery is
// best-effort: booking state stays authoritative even when a
// notification is lost.
type Notification struct {
	PartyID    string           `json:"party_id"`
	ResourceID string           `json:"resource_id"`
	BookingID  string           `json:"booking_id,omitempty"`
	Kind       NotificationKind `json:"kind"`
	Window     model.TimeWindow `json:"window"`
	Reason     string           `json:"reason,omitempty"`
	Actor      string           `json:"actor,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Notifier delivers outcome notifications. Implementations must not
// assume the caller retries; a returned error is logged, never used to
// revert committed state.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}
