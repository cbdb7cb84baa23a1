package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"deskhive/internal/bookings/engine"
	bookingserrors "deskhive/internal/bookings/errors"
	"deskhive/internal/bookings/repository"
	"deskhive/internal/bookings/validator"
	"deskhive/pkg/config"
	apperrors "deskhive/pkg/errors"
	"deskhive/pkg/model"
	"deskhive/pkg/sanitizer"
)

// BookingOutcome is the result of a booking request. Booking is set on
// acceptance, WaitlistEntry when the party was queued; a rejection
// carries only the decision.
type BookingOutcome struct {
	Decision      engine.Decision      `json:"decision"`
	Booking       *model.Booking       `json:"booking,omitempty"`
	WaitlistEntry *model.WaitlistEntry `json:"waitlist_entry,omitempty"`
}

// BlockOutcome is the result of an administrative block request.
type BlockOutcome struct {
	Decision engine.Decision `json:"decision"`
	Block    *model.Block    `json:"block,omitempty"`
}

// ReleaseOutcome reports a release (cancellation or block removal) and
// the promotions it triggered.
type ReleaseOutcome struct {
	Cancelled    *model.Booking  `json:"cancelled,omitempty"`
	RemovedBlock *model.Block    `json:"removed_block,omitempty"`
	Promoted     []model.Booking `json:"promoted,omitempty"`
}

// DaySheet is one resource's schedule for a date.
type DaySheet struct {
	ResourceID string                `json:"resource_id"`
	Date       string                `json:"date"`
	Bookings   []model.Booking       `json:"bookings"`
	Blocks     []model.Block         `json:"blocks"`
	Waitlist   []model.WaitlistEntry `json:"waitlist"`
}

type BookingService interface {
	Request(ctx context.Context, req *model.BookingRequest) (*BookingOutcome, error)
	Cancel(ctx context.Context, bookingID string, actor string) (*ReleaseOutcome, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	DaySheet(ctx context.Context, resourceID string, date string) (*DaySheet, error)
	AddBlock(ctx context.Context, req *model.BlockRequest) (*BlockOutcome, error)
	RemoveBlock(ctx context.Context, resourceID string, blockID string, actor string) (*ReleaseOutcome, error)
	JoinWaitlist(ctx context.Context, req *model.WaitlistRequest) (*model.WaitlistEntry, error)
	LeaveWaitlist(ctx context.Context, resourceID string, partyID string, actor string) error
}

type bookingService struct {
	store     engine.Store
	reader    repository.BookingReader
	lockRepo  repository.ResourceLockRepository
	notifier  engine.Notifier
	promoter  *engine.Promoter
	validator *validator.BookingValidator
	locks     *resourceMutex
	cfg       *config.Config
}

func NewBookingService(
	store engine.Store,
	reader repository.BookingReader,
	lockRepo repository.ResourceLockRepository,
	notifier engine.Notifier,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		store:     store,
		reader:    reader,
		lockRepo:  lockRepo,
		notifier:  notifier,
		promoter:  engine.NewPromoter(notifier, cfg.Log),
		validator: validator,
		locks:     newResourceMutex(),
		cfg:       cfg,
	}
}

// Request evaluates a booking attempt and commits the resulting ledger
// mutation. An accepted request yields a confirmed booking; a
// waitlisted one queues the party; a rejection writes nothing.
func (s *bookingService) Request(ctx context.Context, req *model.BookingRequest) (*BookingOutcome, error) {
	s.sanitizeBookingRequest(req)
	if err := s.validator.ValidateBookingRequest(req); err != nil {
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"error": err.Error()})
	}

	var outcome *BookingOutcome
	err := s.withResourceLock(ctx, req.ResourceID, func() error {
		ledger, err := s.loadLedger(ctx, req.ResourceID)
		if err != nil {
			return err
		}

		decision, err := engine.Evaluate(ledger, req.Window, ledger.Policy())
		if err != nil {
			if errors.Is(err, engine.ErrInvalidWindow) {
				return apperrors.Validation("Invalid booking window", map[string]any{"window": req.Window.String()})
			}
			return apperrors.Internal("Failed to evaluate booking request", err)
		}

		outcome = &BookingOutcome{Decision: decision}
		switch decision.Outcome {
		case engine.OutcomeAccepted:
			booking := model.Booking{
				ID:         uuid.NewString(),
				ResourceID: req.ResourceID,
				OwnerID:    req.OwnerID,
				Window:     req.Window,
				Status:     model.BookingConfirmed,
				CreatedAt:  time.Now().UTC(),
			}
			if err := ledger.AddBooking(booking, req.Actor); err != nil {
				return s.mapEngineError(err)
			}
			if err := s.commit(ctx, ledger); err != nil {
				return err
			}
			outcome.Booking = &booking
			s.notify(ctx, engine.Notification{
				PartyID:    req.OwnerID,
				ResourceID: req.ResourceID,
				BookingID:  booking.ID,
				Kind:       engine.NotifyAccepted,
				Window:     req.Window,
				Actor:      req.Actor,
				OccurredAt: time.Now().UTC(),
			})

		case engine.OutcomeWaitlisted:
			entry, err := s.enqueue(ctx, ledger, req)
			if err != nil {
				return err
			}
			outcome.WaitlistEntry = entry

		case engine.OutcomeRejected:
			s.notify(ctx, engine.Notification{
				PartyID:    req.OwnerID,
				ResourceID: req.ResourceID,
				Kind:       engine.NotifyRejected,
				Window:     req.Window,
				Reason:     string(decision.Reason),
				Actor:      req.Actor,
				OccurredAt: time.Now().UTC(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking request processed",
		"resource_id", req.ResourceID,
		"owner_id", req.OwnerID,
		"window", req.Window.String(),
		"outcome", outcome.Decision.Outcome,
		"reason", outcome.Decision.Reason,
	)
	return outcome, nil
}

// Cancel transitions a booking to cancelled and runs the promotion
// cascade over the freed window inside the same exclusion scope, so a
// freed slot is reassigned before any concurrent request sees it.
func (s *bookingService) Cancel(ctx context.Context, bookingID string, actor string) (*ReleaseOutcome, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if actor == "" {
		return nil, apperrors.InvalidInput("Actor is required for cancellation")
	}

	existing, err := s.reader.FindBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		return nil, apperrors.Internal("Failed to look up booking", err)
	}

	var outcome *ReleaseOutcome
	err = s.withResourceLock(ctx, existing.ResourceID, func() error {
		ledger, err := s.loadLedger(ctx, existing.ResourceID)
		if err != nil {
			return err
		}

		cancelled, err := ledger.CancelBooking(bookingID, actor)
		if err != nil {
			return s.mapEngineError(err)
		}

		promoted, err := s.promoter.Promote(ctx, ledger, cancelled.Window, actor)
		if err != nil {
			return s.mapEngineError(err)
		}

		if err := s.commit(ctx, ledger); err != nil {
			return err
		}
		outcome = &ReleaseOutcome{Cancelled: &cancelled, Promoted: promoted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking cancelled",
		"booking_id", bookingID,
		"resource_id", existing.ResourceID,
		"actor", actor,
		"promoted", len(outcome.Promoted),
	)
	return outcome, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.reader.FindBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// DaySheet returns one resource's confirmed bookings, blocks, and
// waitlist for a date, read from a consistent snapshot.
func (s *bookingService) DaySheet(ctx context.Context, resourceID string, date string) (*DaySheet, error) {
	if resourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	ledger, err := s.loadLedger(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	return &DaySheet{
		ResourceID: resourceID,
		Date:       date,
		Bookings:   ledger.ConfirmedBookingsOn(date),
		Blocks:     ledger.BlocksOn(date),
		Waitlist:   ledger.Waitlist(),
	}, nil
}

// AddBlock creates an administrative block after checking it against
// confirmed bookings with exclusive semantics. A block never
// invalidates an existing booking.
func (s *bookingService) AddBlock(ctx context.Context, req *model.BlockRequest) (*BlockOutcome, error) {
	s.sanitizeBlockRequest(req)
	if err := s.validator.ValidateBlockRequest(req); err != nil {
		return nil, apperrors.Validation("Invalid block request", map[string]any{"error": err.Error()})
	}

	var outcome *BlockOutcome
	err := s.withResourceLock(ctx, req.ResourceID, func() error {
		ledger, err := s.loadLedger(ctx, req.ResourceID)
		if err != nil {
			return err
		}

		decision, err := engine.EvaluateBlock(ledger, req.Window)
		if err != nil {
			if errors.Is(err, engine.ErrInvalidWindow) {
				return apperrors.Validation("Invalid block window", map[string]any{"window": req.Window.String()})
			}
			return apperrors.Internal("Failed to evaluate block request", err)
		}

		outcome = &BlockOutcome{Decision: decision}
		if decision.Outcome != engine.OutcomeAccepted {
			return nil
		}

		block := model.Block{
			ID:         uuid.NewString(),
			ResourceID: req.ResourceID,
			Window:     req.Window,
			Reason:     req.Reason,
			CreatedBy:  req.Actor,
			CreatedAt:  time.Now().UTC(),
		}
		if err := ledger.AddBlock(block, req.Actor); err != nil {
			return s.mapEngineError(err)
		}
		if err := s.commit(ctx, ledger); err != nil {
			return err
		}
		outcome.Block = &block
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Block request processed",
		"resource_id", req.ResourceID,
		"window", req.Window.String(),
		"outcome", outcome.Decision.Outcome,
		"actor", req.Actor,
	)
	return outcome, nil
}

// RemoveBlock deletes a block and promotes over the freed window.
func (s *bookingService) RemoveBlock(ctx context.Context, resourceID string, blockID string, actor string) (*ReleaseOutcome, error) {
	if resourceID == "" || blockID == "" {
		return nil, apperrors.InvalidInput("Resource ID and block ID are required")
	}
	if actor == "" {
		return nil, apperrors.InvalidInput("Actor is required for block removal")
	}

	var outcome *ReleaseOutcome
	err := s.withResourceLock(ctx, resourceID, func() error {
		ledger, err := s.loadLedger(ctx, resourceID)
		if err != nil {
			return err
		}

		removed, err := ledger.RemoveBlock(blockID, actor)
		if err != nil {
			if errors.Is(err, engine.ErrNotFound) {
				return apperrors.NotFoundWithID("Block", blockID)
			}
			return s.mapEngineError(err)
		}

		promoted, err := s.promoter.Promote(ctx, ledger, removed.Window, actor)
		if err != nil {
			return s.mapEngineError(err)
		}

		if err := s.commit(ctx, ledger); err != nil {
			return err
		}
		outcome = &ReleaseOutcome{RemovedBlock: &removed, Promoted: promoted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Block removed",
		"resource_id", resourceID,
		"block_id", blockID,
		"actor", actor,
		"promoted", len(outcome.Promoted),
	)
	return outcome, nil
}

// JoinWaitlist queues a party directly, without a preceding booking
// request.
func (s *bookingService) JoinWaitlist(ctx context.Context, req *model.WaitlistRequest) (*model.WaitlistEntry, error) {
	s.sanitizeWaitlistRequest(req)
	if err := s.validator.ValidateWaitlistRequest(req); err != nil {
		return nil, apperrors.Validation("Invalid waitlist request", map[string]any{"error": err.Error()})
	}

	var entry *model.WaitlistEntry
	err := s.withResourceLock(ctx, req.ResourceID, func() error {
		ledger, err := s.loadLedger(ctx, req.ResourceID)
		if err != nil {
			return err
		}

		enqueued, err := s.enqueue(ctx, ledger, &model.BookingRequest{
			ResourceID: req.ResourceID,
			OwnerID:    req.PartyID,
			Window:     req.Window,
			Actor:      req.Actor,
			PartyName:  req.Name,
			Contact:    req.Contact,
		})
		if err != nil {
			return err
		}
		entry = enqueued
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Party joined waitlist",
		"resource_id", req.ResourceID,
		"party_id", req.PartyID,
		"window", req.Window.String(),
	)
	return entry, nil
}

// LeaveWaitlist withdraws a party from the queue.
func (s *bookingService) LeaveWaitlist(ctx context.Context, resourceID string, partyID string, actor string) error {
	if resourceID == "" || partyID == "" {
		return apperrors.InvalidInput("Resource ID and party ID are required")
	}

	err := s.withResourceLock(ctx, resourceID, func() error {
		ledger, err := s.loadLedger(ctx, resourceID)
		if err != nil {
			return err
		}
		if err := ledger.RemoveFromWaitlist(partyID, actor); err != nil {
			if errors.Is(err, engine.ErrNotFound) {
				return apperrors.NotFoundWithID("Waitlist entry", partyID)
			}
			return s.mapEngineError(err)
		}
		return s.commit(ctx, ledger)
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Party left waitlist", "resource_id", resourceID, "party_id", partyID, "actor", actor)
	return nil
}

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

// withResourceLock serializes mutating operations per resource: an
// in-process mutex for local writers, then a Mongo advisory lock
// against other instances.
func (s *bookingService) withResourceLock(ctx context.Context, resourceID string, fn func() error) error {
	unlock := s.locks.Lock(resourceID)
	defer unlock()

	if s.lockRepo != nil {
		lockID, err := s.lockRepo.Acquire(ctx, resourceID, s.ownerID())
		if err != nil {
			if errors.Is(err, bookingserrors.ErrLockNotAcquired) {
				return apperrors.Conflict("Resource is being modified, retry shortly")
			}
			return apperrors.Internal("Failed to acquire resource lock", err)
		}
		defer func() {
			if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release resource lock", "lock_id", lockID, "error", releaseErr)
			}
		}()
	}

	return fn()
}

func (s *bookingService) ownerID() string {
	return "bookings-" + s.cfg.Port
}

func (s *bookingService) loadLedger(ctx context.Context, resourceID string) (*engine.Ledger, error) {
	ledger, err := s.store.LoadLedger(ctx, resourceID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrResourceNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", resourceID)
		}
		return nil, apperrors.Internal("Failed to load resource ledger", err)
	}
	return ledger, nil
}

func (s *bookingService) commit(ctx context.Context, ledger *engine.Ledger) error {
	if err := s.store.Commit(ctx, ledger.ResourceID(), ledger.Mutations()); err != nil {
		s.cfg.Log.Error("Failed to commit ledger mutations", "resource_id", ledger.ResourceID(), "error", err)
		return apperrors.Internal("Failed to persist booking state", err)
	}
	return nil
}

func (s *bookingService) enqueue(ctx context.Context, ledger *engine.Ledger, req *model.BookingRequest) (*model.WaitlistEntry, error) {
	policy := ledger.Policy()
	if !policy.CapacityBounded || !policy.AllowWaitlist {
		return nil, apperrors.InvalidInput("Resource does not keep a waitlist")
	}
	if ledger.IsWaitlisted(req.OwnerID, req.Window) {
		return nil, apperrors.Conflict("Party is already on the waitlist for this window")
	}
	if len(ledger.Waitlist()) >= s.cfg.MaxWaitlistLength {
		return nil, apperrors.Conflict("Waitlist is full")
	}

	name := req.PartyName
	if name == "" {
		name = req.OwnerID
	}
	entry := model.WaitlistEntry{
		PartyID:    req.OwnerID,
		ResourceID: req.ResourceID,
		Window:     req.Window,
		Name:       name,
		Contact:    req.Contact,
		JoinedAt:   time.Now().UTC(),
	}
	if err := ledger.EnqueueWaitlist(entry, req.Actor); err != nil {
		return nil, s.mapEngineError(err)
	}
	if err := s.commit(ctx, ledger); err != nil {
		return nil, err
	}
	return &entry, nil
}

// notify delivers an outcome signal. Failures are logged; committed
// state is never reverted for a lost notification.
func (s *bookingService) notify(ctx context.Context, n engine.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.cfg.Log.Error("Failed to deliver booking notification",
			"party_id", n.PartyID,
			"resource_id", n.ResourceID,
			"kind", n.Kind,
			"error", err,
		)
	}
}

func (s *bookingService) mapEngineError(err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidWindow):
		return apperrors.InvalidInput("Time window is invalid")
	case errors.Is(err, engine.ErrNotFound):
		return apperrors.NotFound("Ledger entry")
	case errors.Is(err, engine.ErrAlreadyCancelled):
		return apperrors.Conflict("Booking is already cancelled")
	case errors.Is(err, engine.ErrInvariantViolation):
		s.cfg.Log.Error("Ledger invariant violation detected", "error", err)
		return apperrors.Internal("Booking state invariant violated", err)
	default:
		return apperrors.Internal("Booking operation failed", err)
	}
}

func (s *bookingService) sanitizeBookingRequest(req *model.BookingRequest) {
	req.OwnerID = sanitizer.TrimAndNormalize(req.OwnerID)
	req.Actor = sanitizer.TrimAndNormalize(req.Actor)
	req.PartyName = sanitizer.NormalizeName(req.PartyName)
	req.Contact = normalizeContact(req.Contact)
}

func (s *bookingService) sanitizeBlockRequest(req *model.BlockRequest) {
	req.Reason = sanitizer.TrimAndNormalize(req.Reason)
	req.Actor = sanitizer.TrimAndNormalize(req.Actor)
}

func (s *bookingService) sanitizeWaitlistRequest(req *model.WaitlistRequest) {
	req.PartyID = sanitizer.TrimAndNormalize(req.PartyID)
	req.Actor = sanitizer.TrimAndNormalize(req.Actor)
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Contact = normalizeContact(req.Contact)
}

// normalizeContact canonicalizes phone contacts to E.164 and leaves
// other contact forms (email) trimmed.
func normalizeContact(contact string) string {
	contact = sanitizer.TrimAndNormalize(contact)
	if phone := sanitizer.NormalizePhone(contact); phone != "" {
		return phone
	}
	return contact
}
