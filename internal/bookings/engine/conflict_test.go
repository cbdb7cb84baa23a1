package engine

import (
	"testing"
	"time"

	"deskhive/pkg/model"
)

func window(start, end string) model.TimeWindow {
	return model.NewTimeWindow("2026-09-01", start, end)
}

func confirmed(id, owner string, w model.TimeWindow) model.Booking {
	return model.Booking{
		ID:         id,
		ResourceID: "res-1",
		OwnerID:    owner,
		Window:     w,
		Status:     model.BookingConfirmed,
		CreatedAt:  time.Now(),
	}
}

func exclusiveLedger(bookings []model.Booking, blocks []model.Block) *Ledger {
	return NewLedger("res-1", model.ExclusivePolicy(), bookings, blocks, nil)
}

// ────────────────────────────────────────────────
// Input validation
// ────────────────────────────────────────────────

func TestEvaluate_InvalidWindow(t *testing.T) {
	tests := []struct {
		name   string
		window model.TimeWindow
	}{
		{"zero length", window("10:00", "10:00")},
		{"end before start", window("11:00", "10:00")},
		{"bad date", model.NewTimeWindow("not-a-date", "10:00", "11:00")},
		{"bad start time", model.NewTimeWindow("2026-09-01", "10h00", "11:00")},
		{"empty", model.TimeWindow{}},
	}

	l := exclusiveLedger(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(l, tt.window, model.ExclusivePolicy())
			if err != ErrInvalidWindow {
				t.Errorf("expected ErrInvalidWindow, got %v", err)
			}
		})
	}
}

// ────────────────────────────────────────────────
// Exclusive resources
// ────────────────────────────────────────────────

func TestEvaluate_ExclusiveRoomScenario(t *testing.T) {
	// Room with capacity 1. A = [10:00,11:00) is confirmed; B overlaps,
	// C only touches A's end point.
	l := exclusiveLedger([]model.Booking{
		confirmed("a", "alice", window("10:00", "11:00")),
	}, nil)

	decision, err := Evaluate(l, window("10:30", "11:30"), model.ExclusivePolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeRejected || decision.Reason != ReasonScheduleConflict {
		t.Errorf("overlapping request: expected Rejected(schedule_conflict), got %s(%s)", decision.Outcome, decision.Reason)
	}

	decision, err = Evaluate(l, window("11:00", "12:00"), model.ExclusivePolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeAccepted {
		t.Errorf("touching request: expected Accepted, got %s(%s)", decision.Outcome, decision.Reason)
	}
}

func TestEvaluate_BlockedWindow(t *testing.T) {
	l := exclusiveLedger(nil, []model.Block{
		{ID: "blk-1", ResourceID: "res-1", Window: window("09:00", "12:00"), Reason: "maintenance", CreatedBy: "ops"},
	})

	decision, err := Evaluate(l, window("10:00", "11:00"), model.ExclusivePolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeRejected || decision.Reason != ReasonBlocked {
		t.Errorf("expected Rejected(blocked), got %s(%s)", decision.Outcome, decision.Reason)
	}

	// Touching the block's end point is compatible.
	decision, err = Evaluate(l, window("12:00", "13:00"), model.ExclusivePolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeAccepted {
		t.Errorf("expected Accepted after block end, got %s(%s)", decision.Outcome, decision.Reason)
	}
}

func TestEvaluate_OtherDateDoesNotConflict(t *testing.T) {
	l := exclusiveLedger([]model.Booking{
		confirmed("a", "alice", model.NewTimeWindow("2026-09-02", "10:00", "11:00")),
	}, nil)

	decision, err := Evaluate(l, window("10:00", "11:00"), model.ExclusivePolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeAccepted {
		t.Errorf("expected Accepted, got %s(%s)", decision.Outcome, decision.Reason)
	}
}

func TestEvaluate_CancelledBookingsAreIgnored(t *testing.T) {
	cancelledBooking := confirmed("a", "alice", window("10:00", "11:00"))
	cancelledBooking.Status = model.BookingCancelled

	l := exclusiveLedger([]model.Booking{cancelledBooking}, nil)

	decision, err := Evaluate(l, window("10:00", "11:00"), model.ExclusivePolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeAccepted {
		t.Errorf("expected Accepted over cancelled booking, got %s(%s)", decision.Outcome, decision.Reason)
	}
}

// ────────────────────────────────────────────────
// Capacity-bounded resources
// ────────────────────────────────────────────────

func TestEvaluate_CapacityCeiling(t *testing.T) {
	policy := model.BookingPolicy{CapacityBounded: true, AllowWaitlist: true, MaxConcurrent: 2}
	eventWindow := window("18:00", "20:00")

	l := NewLedger("res-1", policy, []model.Booking{
		confirmed("a", "p1", eventWindow),
		confirmed("b", "p2", eventWindow),
	}, nil, nil)

	// At the ceiling the request is never accepted.
	decision, err := Evaluate(l, eventWindow, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeWaitlisted {
		t.Errorf("at capacity with waitlist: expected Waitlisted, got %s(%s)", decision.Outcome, decision.Reason)
	}
	if decision.Overlapping != 2 {
		t.Errorf("expected 2 overlapping bookings, got %d", decision.Overlapping)
	}

	noWaitlist := model.BookingPolicy{CapacityBounded: true, AllowWaitlist: false, MaxConcurrent: 2}
	decision, err = Evaluate(l, eventWindow, noWaitlist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeRejected || decision.Reason != ReasonFull {
		t.Errorf("at capacity without waitlist: expected Rejected(full), got %s(%s)", decision.Outcome, decision.Reason)
	}
}

func TestEvaluate_CapacityBelowCeiling(t *testing.T) {
	policy := model.BookingPolicy{CapacityBounded: true, AllowWaitlist: true, MaxConcurrent: 3}
	eventWindow := window("18:00", "20:00")

	l := NewLedger("res-1", policy, []model.Booking{
		confirmed("a", "p1", eventWindow),
	}, nil, nil)

	decision, err := Evaluate(l, eventWindow, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeAccepted {
		t.Errorf("expected Accepted below ceiling, got %s(%s)", decision.Outcome, decision.Reason)
	}
}

func TestEvaluate_CapacityDefaultsToOne(t *testing.T) {
	policy := model.BookingPolicy{CapacityBounded: true, AllowWaitlist: false}
	eventWindow := window("18:00", "20:00")

	l := NewLedger("res-1", policy, []model.Booking{
		confirmed("a", "p1", eventWindow),
	}, nil, nil)

	decision, err := Evaluate(l, eventWindow, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeRejected || decision.Reason != ReasonFull {
		t.Errorf("expected Rejected(full) with default ceiling 1, got %s(%s)", decision.Outcome, decision.Reason)
	}
}

// ────────────────────────────────────────────────
// Administrative block evaluation
// ────────────────────────────────────────────────

func TestEvaluateBlock_OverConfirmedBooking(t *testing.T) {
	// Blocks cannot retroactively invalidate confirmed bookings, even on
	// a capacity-bounded resource.
	policy := model.BookingPolicy{CapacityBounded: true, AllowWaitlist: true, MaxConcurrent: 10}
	l := NewLedger("res-1", policy, []model.Booking{
		confirmed("a", "p1", window("18:00", "20:00")),
	}, nil, nil)

	decision, err := EvaluateBlock(l, window("17:00", "19:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeRejected || decision.Reason != ReasonScheduleConflict {
		t.Errorf("expected Rejected(schedule_conflict), got %s(%s)", decision.Outcome, decision.Reason)
	}
}

func TestEvaluateBlock_FreeWindow(t *testing.T) {
	l := exclusiveLedger([]model.Booking{
		confirmed("a", "alice", window("10:00", "11:00")),
	}, nil)

	decision, err := EvaluateBlock(l, window("11:00", "13:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeAccepted {
		t.Errorf("expected Accepted, got %s(%s)", decision.Outcome, decision.Reason)
	}
}
