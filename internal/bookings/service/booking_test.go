package service

import (
	"context"
	"testing"
	"time"

	"deskhive/internal/bookings/engine"
	"deskhive/internal/bookings/repository"
	"deskhive/internal/bookings/validator"
	"deskhive/pkg/config"
	apperrors "deskhive/pkg/errors"
	"deskhive/pkg/logger"
	"deskhive/pkg/model"
)

// ────────────────────────────────────────────────
// Test fixtures
// ────────────────────────────────────────────────

type mockNotifier struct {
	notifyFunc func(ctx context.Context, n engine.Notification) error
	sent       []engine.Notification
}

func (m *mockNotifier) Notify(ctx context.Context, n engine.Notification) error {
	m.sent = append(m.sent, n)
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, n)
	}
	return nil
}

func (m *mockNotifier) kinds() []engine.NotificationKind {
	out := make([]engine.NotificationKind, 0, len(m.sent))
	for _, n := range m.sent {
		out = append(out, n.Kind)
	}
	return out
}

func newTestService(store *repository.MemoryStore, notifier *mockNotifier) BookingService {
	log := logger.Discard()
	cfg := &config.Config{
		Log:               log,
		Port:              "8080",
		MaxWaitlistLength: 100,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
	}
	return NewBookingService(store, store, nil, notifier, validator.NewBookingValidator(log), cfg)
}

func bookingRequest(resource, owner, start, end string) *model.BookingRequest {
	return &model.BookingRequest{
		ResourceID: resource,
		OwnerID:    owner,
		Window:     model.NewTimeWindow("2026-09-01", start, end),
		Actor:      owner,
	}
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Code
}

// ────────────────────────────────────────────────
// Booking requests
// ────────────────────────────────────────────────

func TestRequest_ExclusiveRoomLifecycle(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SetPolicy("room-1", model.ExclusivePolicy())
	notifier := &mockNotifier{}
	svc := newTestService(store, notifier)
	ctx := context.Background()

	outcome, err := svc.Request(ctx, bookingRequest("room-1", "alice", "10:00", "11:00"))
	if err != nil {
		t.Fatalf("first request: unexpected error: %v", err)
	}
	if outcome.Decision.Outcome != engine.OutcomeAccepted || outcome.Booking == nil {
		t.Fatalf("expected acceptance with booking, got %+v", outcome)
	}

	outcome, err = svc.Request(ctx, bookingRequest("room-1", "bob", "10:30", "11:30"))
	if err != nil {
		t.Fatalf("overlapping request: unexpected error: %v", err)
	}
	if outcome.Decision.Outcome != engine.OutcomeRejected || outcome.Decision.Reason != engine.ReasonScheduleConflict {
		t.Errorf("expected Rejected(schedule_conflict), got %s(%s)", outcome.Decision.Outcome, outcome.Decision.Reason)
	}
	if outcome.Booking != nil {
		t.Errorf("rejection must not create a booking")
	}

	outcome, err = svc.Request(ctx, bookingRequest("room-1", "carol", "11:00", "12:00"))
	if err != nil {
		t.Fatalf("touching request: unexpected error: %v", err)
	}
	if outcome.Decision.Outcome != engine.OutcomeAccepted {
		t.Errorf("touching windows are compatible, got %s(%s)", outcome.Decision.Outcome, outcome.Decision.Reason)
	}

	want := []engine.NotificationKind{engine.NotifyAccepted, engine.NotifyRejected, engine.NotifyAccepted}
	got := notifier.kinds()
	if len(got) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestRequest_UnknownResource(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store, &mockNotifier{})

	_, err := svc.Request(context.Background(), bookingRequest("ghost", "alice", "10:00", "11:00"))
	if code := appErrorCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %s", apperrors.CodeNotFound, code)
	}
}

func TestRequest_InvalidWindow(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SetPolicy("room-1", model.ExclusivePolicy())
	svc := newTestService(store, &mockNotifier{})

	_, err := svc.Request(context.Background(), bookingRequest("room-1", "alice", "11:00", "10:00"))
	if code := appErrorCode(t, err); code != apperrors.CodeValidation {
		t.Errorf("expected %s, got %s", apperrors.CodeValidation, code)
	}
}

// ────────────────────────────────────────────────
// Capacity, waitlist, promotion
// ────────────────────────────────────────────────

func TestRequest_CapacityWaitlistAndPromotion(t *testing.T) {
	// Event with ceiling 2: first two parties accepted, the third
	// waitlisted. When an accepted party cancels, the third is promoted
	// and the store shows two confirmed bookings and an empty waitlist.
	store := repository.NewMemoryStore()
	store.SetPolicy("event-1", model.BookingPolicy{CapacityBounded: true, AllowWaitlist: true, MaxConcurrent: 2})
	notifier := &mockNotifier{}
	svc := newTestService(store, notifier)
	ctx := context.Background()

	first, err := svc.Request(ctx, bookingRequest("event-1", "p1", "18:00", "20:00"))
	if err != nil {
		t.Fatalf("p1: unexpected error: %v", err)
	}
	if first.Decision.Outcome != engine.OutcomeAccepted {
		t.Fatalf("p1: expected acceptance, got %s", first.Decision.Outcome)
	}

	second, err := svc.Request(ctx, bookingRequest("event-1", "p2", "18:00", "20:00"))
	if err != nil {
		t.Fatalf("p2: unexpected error: %v", err)
	}
	if second.Decision.Outcome != engine.OutcomeAccepted {
		t.Fatalf("p2: expected acceptance, got %s", second.Decision.Outcome)
	}

	req := bookingRequest("event-1", "p3", "18:00", "20:00")
	req.PartyName = "Party Three"
	req.Contact = "p3@example.com"
	third, err := svc.Request(ctx, req)
	if err != nil {
		t.Fatalf("p3: unexpected error: %v", err)
	}
	if third.Decision.Outcome != engine.OutcomeWaitlisted || third.WaitlistEntry == nil {
		t.Fatalf("p3: expected waitlisting, got %+v", third)
	}

	release, err := svc.Cancel(ctx, first.Booking.ID, "p1")
	if err != nil {
		t.Fatalf("cancel: unexpected error: %v", err)
	}
	if len(release.Promoted) != 1 || release.Promoted[0].OwnerID != "p3" {
		t.Fatalf("expected p3 promoted, got %+v", release.Promoted)
	}

	last := notifier.sent[len(notifier.sent)-1]
	if last.Kind != engine.NotifyPromoted || last.PartyID != "p3" {
		t.Errorf("expected Promoted notification for p3, got %s for %s", last.Kind, last.PartyID)
	}

	sheet, err := svc.DaySheet(ctx, "event-1", "2026-09-01")
	if err != nil {
		t.Fatalf("daysheet: unexpected error: %v", err)
	}
	if len(sheet.Bookings) != 2 {
		t.Errorf("expected 2 confirmed bookings after promotion, got %d", len(sheet.Bookings))
	}
	if len(sheet.Waitlist) != 0 {
		t.Errorf("expected empty waitlist after promotion, got %d entries", len(sheet.Waitlist))
	}
}

func TestRequest_CapacityFullWithoutWaitlist(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SetPolicy("event-1", model.BookingPolicy{CapacityBounded: true, AllowWaitlist: false, MaxConcurrent: 1})
	svc := newTestService(store, &mockNotifier{})
	ctx := context.Background()

	if _, err := svc.Request(ctx, bookingRequest("event-1", "p1", "18:00", "20:00")); err != nil {
		t.Fatalf("p1: unexpected error: %v", err)
	}

	outcome, err := svc.Request(ctx, bookingRequest("event-1", "p2", "18:00", "20:00"))
	if err != nil {
		t.Fatalf("p2: unexpected error: %v", err)
	}
	if outcome.Decision.Outcome != engine.OutcomeRejected || outcome.Decision.Reason != engine.ReasonFull {
		t.Errorf("expected Rejected(full), got %s(%s)", outcome.Decision.Outcome, outcome.Decision.Reason)
	}
}

// ────────────────────────────────────────────────
// Cancellation
// ────────────────────────────────────────────────

func TestCancel_SecondCancelConflicts(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SetPolicy("room-1", model.ExclusivePolicy())
	svc := newTestService(store, &mockNotifier{})
	ctx := context.Background()

	outcome, err := svc.Request(ctx, bookingRequest("room-1", "alice", "10:00", "11:00"))
	if err != nil {
		t.Fatalf("request: unexpected error: %v", err)
	}

	if _, err := svc.Cancel(ctx, outcome.Booking.ID, "alice"); err != nil {
		t.Fatalf("first cancel: unexpected error: %v", err)
	}

	_, err = svc.Cancel(ctx, outcome.Booking.ID, "alice")
	if code := appErrorCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("second cancel: expected %s, got %s", apperrors.CodeConflict, code)
	}
}

func TestCancel_MissingBookingAndActor(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SetPolicy("room-1", model.ExclusivePolicy())
	svc := newTestService(store, &mockNotifier{})
	ctx := context.Background()

	_, err := svc.Cancel(ctx, "missing", "alice")
	if code := appErrorCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %s", apperrors.CodeNotFound, code)
	}

	_, err = svc.Cancel(ctx, "whatever", "")
	if code := appErrorCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("missing actor: expected %s, got %s", apperrors.CodeInvalidInput, code)
	}
}

// ────────────────────────────────────────────────
// Administrative blocks
// ────────────────────────────────────────────────

func TestAddBlock_Lifecycle(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SetPolicy("room-1", model.ExclusivePolicy())
	svc := newTestService(store, &mockNotifier{})
	ctx := context.Background()

	blockReq := &model.BlockRequest{
		ResourceID: "room-1",
		Window:     model.NewTimeWindow("2026-09-01", "09:00", "12:00"),
		Reason:     "deep cleaning",
		Actor:      "ops",
	}
	blockOutcome, err := svc.AddBlock(ctx, blockReq)
	if err != nil {
		t.Fatalf("add block: unexpected error: %v", err)
	}
	if blockOutcome.Decision.Outcome != engine.OutcomeAccepted || blockOutcome.Block == nil {
		t.Fatalf("expected block created, got %+v", blockOutcome)
	}

	outcome, err := svc.Request(ctx, bookingRequest("room-1", "alice", "10:00", "11:00"))
	if err != nil {
		t.Fatalf("request over block: unexpected error: %v", err)
	}
	if outcome.Decision.Outcome != engine.OutcomeRejected || outcome.Decision.Reason != engine.ReasonBlocked {
		t.Errorf("expected Rejected(blocked), got %s(%s)", outcome.Decision.Outcome, outcome.Decision.Reason)
	}

	if _, err := svc.RemoveBlock(ctx, "room-1", blockOutcome.Block.ID, "ops"); err != nil {
		t.Fatalf("remove block: unexpected error: %v", err)
	}

	outcome, err = svc.Request(ctx, bookingRequest("room-1", "alice", "10:00", "11:00"))
	if err != nil {
		t.Fatalf("request after removal: unexpected error: %v", err)
	}
	if outcome.Decision.Outcome != engine.OutcomeAccepted {
		t.Errorf("expected acceptance after block removal, got %s(%s)", outcome.Decision.Outcome, outcome.Decision.Reason)
	}
}

func TestAddBlock_OverConfirmedBookingRejected(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SetPolicy("room-1", model.ExclusivePolicy())
	svc := newTestService(store, &mockNotifier{})
	ctx := context.Background()

	if _, err := svc.Request(ctx, bookingRequest("room-1", "alice", "10:00", "11:00")); err != nil {
		t.Fatalf("request: unexpected error: %v", err)
	}

	blockOutcome, err := svc.AddBlock(ctx, &model.BlockRequest{
		ResourceID: "room-1",
		Window:     model.NewTimeWindow("2026-09-01", "10:30", "12:00"),
		Reason:     "maintenance",
		Actor:      "ops",
	})
	if err != nil {
		t.Fatalf("add block: unexpected error: %v", err)
	}
	if blockOutcome.Decision.Outcome != engine.OutcomeRejected || blockOutcome.Decision.Reason != engine.ReasonScheduleConflict {
		t.Errorf("expected Rejected(schedule_conflict), got %s(%s)", blockOutcome.Decision.Outcome, blockOutcome.Decision.Reason)
	}
	if blockOutcome.Block != nil {
		t.Errorf("rejected block must not be created")
	}
}

func TestRemoveBlock_PromotesWaitlist(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SetPolicy("event-1", model.BookingPolicy{CapacityBounded: true, AllowWaitlist: true, MaxConcurrent: 2})
	notifier := &mockNotifier{}
	svc := newTestService(store, notifier)
	ctx := context.Background()

	blockOutcome, err := svc.AddBlock(ctx, &model.BlockRequest{
		ResourceID: "event-1",
		Window:     model.NewTimeWindow("2026-09-01", "18:00", "20:00"),
		Reason:     "setup pending",
		Actor:      "ops",
	})
	if err != nil {
		t.Fatalf("add block: unexpected error: %v", err)
	}

	for _, party := range []string{"p1", "p2", "p3"} {
		_, err := svc.JoinWaitlist(ctx, &model.WaitlistRequest{
			ResourceID: "event-1",
			PartyID:    party,
			Window:     model.NewTimeWindow("2026-09-01", "18:00", "20:00"),
			Name:       "Party " + party,
			Contact:    party + "@example.com",
			Actor:      party,
		})
		if err != nil {
			t.Fatalf("join %s: unexpected error: %v", party, err)
		}
	}

	release, err := svc.RemoveBlock(ctx, "event-1", blockOutcome.Block.ID, "ops")
	if err != nil {
		t.Fatalf("remove block: unexpected error: %v", err)
	}
	if len(release.Promoted) != 2 {
		t.Fatalf("expected 2 promotions up to the ceiling, got %d", len(release.Promoted))
	}
	if release.Promoted[0].OwnerID != "p1" || release.Promoted[1].OwnerID != "p2" {
		t.Errorf("expected FIFO promotion p1 then p2, got %s then %s", release.Promoted[0].OwnerID, release.Promoted[1].OwnerID)
	}

	sheet, err := svc.DaySheet(ctx, "event-1", "2026-09-01")
	if err != nil {
		t.Fatalf("daysheet: unexpected error: %v", err)
	}
	if len(sheet.Waitlist) != 1 || sheet.Waitlist[0].PartyID != "p3" {
		t.Errorf("expected p3 still queued, got %+v", sheet.Waitlist)
	}
}

// ────────────────────────────────────────────────
// Waitlist endpoints
// ────────────────────────────────────────────────

func TestJoinWaitlist_Guards(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SetPolicy("room-1", model.ExclusivePolicy())
	store.SetPolicy("event-1", model.BookingPolicy{CapacityBounded: true, AllowWaitlist: true, MaxConcurrent: 2})
	svc := newTestService(store, &mockNotifier{})
	ctx := context.Background()

	join := func(resource, party string) error {
		_, err := svc.JoinWaitlist(ctx, &model.WaitlistRequest{
			ResourceID: resource,
			PartyID:    party,
			Window:     model.NewTimeWindow("2026-09-01", "18:00", "20:00"),
			Name:       "Party " + party,
			Contact:    party + "@example.com",
			Actor:      party,
		})
		return err
	}

	// Exclusive resources keep no waitlist.
	if code := appErrorCode(t, join("room-1", "p1")); code != apperrors.CodeInvalidInput {
		t.Errorf("exclusive resource: expected %s, got %s", apperrors.CodeInvalidInput, code)
	}

	if err := join("event-1", "p1"); err != nil {
		t.Fatalf("first join: unexpected error: %v", err)
	}
	if code := appErrorCode(t, join("event-1", "p1")); code != apperrors.CodeConflict {
		t.Errorf("duplicate join: expected %s, got %s", apperrors.CodeConflict, code)
	}
}

func TestLeaveWaitlist(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SetPolicy("event-1", model.BookingPolicy{CapacityBounded: true, AllowWaitlist: true, MaxConcurrent: 2})
	svc := newTestService(store, &mockNotifier{})
	ctx := context.Background()

	_, err := svc.JoinWaitlist(ctx, &model.WaitlistRequest{
		ResourceID: "event-1",
		PartyID:    "p1",
		Window:     model.NewTimeWindow("2026-09-01", "18:00", "20:00"),
		Name:       "Party One",
		Contact:    "p1@example.com",
		Actor:      "p1",
	})
	if err != nil {
		t.Fatalf("join: unexpected error: %v", err)
	}

	if err := svc.LeaveWaitlist(ctx, "event-1", "p1", "p1"); err != nil {
		t.Fatalf("leave: unexpected error: %v", err)
	}
	if code := appErrorCode(t, svc.LeaveWaitlist(ctx, "event-1", "p1", "p1")); code != apperrors.CodeNotFound {
		t.Errorf("second leave: expected %s, got %s", apperrors.CodeNotFound, code)
	}
}

// ────────────────────────────────────────────────
// Audit trail
// ────────────────────────────────────────────────

func TestMutations_CarryActor(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SetPolicy("room-1", model.ExclusivePolicy())
	svc := newTestService(store, &mockNotifier{})
	ctx := context.Background()

	req := bookingRequest("room-1", "alice", "10:00", "11:00")
	req.Actor = "front-desk"
	outcome, err := svc.Request(ctx, req)
	if err != nil {
		t.Fatalf("request: unexpected error: %v", err)
	}
	if _, err := svc.Cancel(ctx, outcome.Booking.ID, "alice"); err != nil {
		t.Fatalf("cancel: unexpected error: %v", err)
	}

	audit := store.Audit()
	if len(audit) != 2 {
		t.Fatalf("expected 2 audit records, got %d", len(audit))
	}
	if audit[0].Op != engine.MutationAddBooking || audit[0].Actor != "front-desk" {
		t.Errorf("expected add_booking by front-desk, got %s by %s", audit[0].Op, audit[0].Actor)
	}
	if audit[1].Op != engine.MutationCancelBooking || audit[1].Actor != "alice" {
		t.Errorf("expected cancel_booking by alice, got %s by %s", audit[1].Op, audit[1].Actor)
	}
}
