package repository

import (
	"context"
	"fmt"
	"sync"

	"deskhive/internal/bookings/engine"
	bookingserrors "deskhive/internal/bookings/errors"
	"deskhive/pkg/model"
)

// MemoryStore is an in-memory engine.Store used by unit tests. Commits
// apply mutations to the held state, so a reloaded ledger observes
// them, matching the Mongo store's behavior without a database.
type MemoryStore struct {
	mu        sync.Mutex
	policies  map[string]model.BookingPolicy
	bookings  map[string][]model.Booking
	blocks    map[string][]model.Block
	waitlists map[string][]model.WaitlistEntry
	audit     []engine.Mutation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		policies:  make(map[string]model.BookingPolicy),
		bookings:  make(map[string][]model.Booking),
		blocks:    make(map[string][]model.Block),
		waitlists: make(map[string][]model.WaitlistEntry),
	}
}

// SetPolicy registers a resource and its policy.
func (s *MemoryStore) SetPolicy(resourceID string, policy model.BookingPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[resourceID] = policy
}

// PolicyFor implements PolicySource.
func (s *MemoryStore) PolicyFor(ctx context.Context, resourceID string) (model.BookingPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	policy, ok := s.policies[resourceID]
	if !ok {
		return model.BookingPolicy{}, bookingserrors.ErrResourceNotFound
	}
	return policy, nil
}

func (s *MemoryStore) LoadLedger(ctx context.Context, resourceID string) (*engine.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	policy, ok := s.policies[resourceID]
	if !ok {
		return nil, bookingserrors.ErrResourceNotFound
	}
	return engine.NewLedger(resourceID, policy, s.bookings[resourceID], s.blocks[resourceID], s.waitlists[resourceID]), nil
}

func (s *MemoryStore) Commit(ctx context.Context, resourceID string, mutations []engine.Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range mutations {
		if err := s.apply(resourceID, m); err != nil {
			return err
		}
	}
	s.audit = append(s.audit, mutations...)
	return nil
}

// FindBookingByID implements BookingReader.
func (s *MemoryStore) FindBookingByID(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bookings := range s.bookings {
		for i := range bookings {
			if bookings[i].ID == id {
				found := bookings[i]
				return &found, nil
			}
		}
	}
	return nil, bookingserrors.ErrNotFound
}

// Audit returns the committed mutations in commit order.
func (s *MemoryStore) Audit() []engine.Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]engine.Mutation, len(s.audit))
	copy(out, s.audit)
	return out
}

func (s *MemoryStore) apply(resourceID string, m engine.Mutation) error {
	switch m.Op {
	case engine.MutationAddBooking:
		s.bookings[resourceID] = append(s.bookings[resourceID], *m.Booking)
		return nil

	case engine.MutationCancelBooking:
		for i := range s.bookings[resourceID] {
			if s.bookings[resourceID][i].ID == m.Booking.ID {
				s.bookings[resourceID][i].Status = model.BookingCancelled
				return nil
			}
		}
		return fmt.Errorf("booking %s not found in store", m.Booking.ID)

	case engine.MutationAddBlock:
		s.blocks[resourceID] = append(s.blocks[resourceID], *m.Block)
		return nil

	case engine.MutationRemoveBlock:
		blocks := s.blocks[resourceID]
		for i := range blocks {
			if blocks[i].ID == m.Block.ID {
				s.blocks[resourceID] = append(blocks[:i], blocks[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("block %s not found in store", m.Block.ID)

	case engine.MutationEnqueueWaitlist:
		s.waitlists[resourceID] = append(s.waitlists[resourceID], *m.Waitlist)
		return nil

	case engine.MutationRemoveWaitlist:
		waitlist := s.waitlists[resourceID]
		for i := range waitlist {
			if waitlist[i].PartyID == m.Waitlist.PartyID && waitlist[i].Window.Equal(m.Waitlist.Window) {
				s.waitlists[resourceID] = append(waitlist[:i], waitlist[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("waitlist entry for %s not found in store", m.Waitlist.PartyID)

	default:
		return fmt.Errorf("unknown mutation op: %s", m.Op)
	}
}
