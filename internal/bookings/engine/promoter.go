package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"deskhive/pkg/logger"
	"deskhive/pkg/model"
)

// Promoter moves waitlisted parties into confirmed bookings when a
// release frees capacity on a capacity-bounded resource. It runs
// synchronously inside the releasing operation's exclusion scope, so a
// freed slot is reassigned before any concurrent request can observe it
// as free.
type Promoter struct {
	notifier Notifier
	log      *logger.Logger
}

func NewPromoter(notifier Notifier, log *logger.Logger) *Promoter {
	return &Promoter{notifier: notifier, log: log}
}

// Promote cascades over the freed window: while free slots remain and a
// party is waiting for that window, the FIFO head is dequeued and
// granted a confirmed booking. Each party is promoted with a single
// ledger write; there is no partial promotion. A notifier failure is
// logged and does not undo a committed promotion.
func (p *Promoter) Promote(ctx context.Context, l *Ledger, window model.TimeWindow, actor string) ([]model.Booking, error) {
	policy := l.Policy()
	if !policy.CapacityBounded {
		return nil, nil
	}
	if !window.IsValid() {
		return nil, ErrInvalidWindow
	}

	maxConcurrent := policy.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	occupied := 0
	for _, b := range l.ConfirmedBookingsOn(window.Date) {
		if b.Window.Overlaps(window) {
			occupied++
		}
	}
	freeSlots := maxConcurrent - occupied

	var promoted []model.Booking
	for freeSlots > 0 {
		entry, ok := l.DequeueNextFor(window, actor)
		if !ok {
			break
		}

		booking := model.Booking{
			ID:         uuid.NewString(),
			ResourceID: l.ResourceID(),
			OwnerID:    entry.PartyID,
			Window:     window,
			Status:     model.BookingConfirmed,
			CreatedAt:  time.Now().UTC(),
		}
		if err := l.AddBooking(booking, actor); err != nil {
			return promoted, err
		}
		promoted = append(promoted, booking)
		freeSlots--

		p.log.Info("Promoted waitlisted party",
			"resource_id", l.ResourceID(),
			"party_id", entry.PartyID,
			"booking_id", booking.ID,
			"window", window.String(),
		)

		if p.notifier == nil {
			continue
		}
		notification := Notification{
			PartyID:    entry.PartyID,
			ResourceID: l.ResourceID(),
			BookingID:  booking.ID,
			Kind:       NotifyPromoted,
			Window:     window,
			Actor:      actor,
			OccurredAt: time.Now().UTC(),
		}
		if err := p.notifier.Notify(ctx, notification); err != nil {
			// The promotion stays committed. Delivery is best-effort.
			p.log.Error("Promotion notification failed",
				"resource_id", l.ResourceID(),
				"party_id", entry.PartyID,
				"booking_id", booking.ID,
				"error", err,
			)
		}
	}

	return promoted, nil
}
