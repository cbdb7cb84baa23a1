package engine

import (
	"sort"
	"time"

	"deskhive/pkg/model"
)

// Ledger is the authoritative in-memory view of one resource's bookings,
// administrative blocks, and waitlist. It is a snapshot: the Store loads
// it, the engine mutates it, and the accumulated Mutations are committed
// back in one transaction.
//
// The ledger is not safe for concurrent writers. The caller must
// serialize mutating operations per resource; a violated invariant
// check returns ErrInvariantViolation, which means that discipline was
// broken.
type Ledger struct {
	resourceID string
	policy     model.BookingPolicy
	bookings   []model.Booking
	blocks     []model.Block
	waitlist   []model.WaitlistEntry
	mutations  []Mutation
}

// NewLedger builds a snapshot from stored state. The waitlist is
// re-sorted by JoinedAt so FIFO order holds regardless of how the store
// returned it.
func NewLedger(resourceID string, policy model.BookingPolicy, bookings []model.Booking, blocks []model.Block, waitlist []model.WaitlistEntry) *Ledger {
	wl := make([]model.WaitlistEntry, len(waitlist))
	copy(wl, waitlist)
	sort.SliceStable(wl, func(i, j int) bool {
		return wl[i].JoinedAt.Before(wl[j].JoinedAt)
	})

	bks := make([]model.Booking, len(bookings))
	copy(bks, bookings)
	bls := make([]model.Block, len(blocks))
	copy(bls, blocks)

	return &Ledger{
		resourceID: resourceID,
		policy:     policy,
		bookings:   bks,
		blocks:     bls,
		waitlist:   wl,
	}
}

func (l *Ledger) ResourceID() string {
	return l.resourceID
}

func (l *Ledger) Policy() model.BookingPolicy {
	return l.policy
}

// Mutations returns the transitions applied to this snapshot, in order,
// for the Store to persist.
func (l *Ledger) Mutations() []Mutation {
	out := make([]Mutation, len(l.mutations))
	copy(out, l.mutations)
	return out
}

// ConfirmedBookingsOn returns the confirmed bookings on a date, sorted
// by start time.
func (l *Ledger) ConfirmedBookingsOn(date string) []model.Booking {
	var out []model.Booking
	for _, b := range l.bookings {
		if b.Status == model.BookingConfirmed && b.Window.Date == date {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Window.Start < out[j].Window.Start
	})
	return out
}

// BlocksOn returns the administrative blocks on a date.
func (l *Ledger) BlocksOn(date string) []model.Block {
	var out []model.Block
	for _, b := range l.blocks {
		if b.Window.Date == date {
			out = append(out, b)
		}
	}
	return out
}

// Waitlist returns the queue in FIFO order.
func (l *Ledger) Waitlist() []model.WaitlistEntry {
	out := make([]model.WaitlistEntry, len(l.waitlist))
	copy(out, l.waitlist)
	return out
}

// IsWaitlisted reports whether a party already waits for the given
// window.
func (l *Ledger) IsWaitlisted(partyID string, window model.TimeWindow) bool {
	for _, e := range l.waitlist {
		if e.PartyID == partyID && e.Window.Equal(window) {
			return true
		}
	}
	return false
}

// AddBooking appends a confirmed booking. The caller must have already
// evaluated the window; this re-checks the invariants and fails with
// ErrInvariantViolation on any breach.
func (l *Ledger) AddBooking(booking model.Booking, actor string) error {
	if !booking.Window.IsValid() {
		return ErrInvalidWindow
	}
	if booking.Status != model.BookingConfirmed {
		return ErrInvariantViolation
	}

	for _, b := range l.blocks {
		if b.Window.Overlaps(booking.Window) {
			return ErrInvariantViolation
		}
	}

	overlapping := 0
	for _, b := range l.bookings {
		if b.Status == model.BookingConfirmed && b.Window.Overlaps(booking.Window) {
			overlapping++
		}
	}
	if !l.policy.CapacityBounded {
		if overlapping > 0 {
			return ErrInvariantViolation
		}
	} else if overlapping >= l.maxConcurrent() {
		return ErrInvariantViolation
	}

	l.bookings = append(l.bookings, booking)
	l.record(Mutation{Op: MutationAddBooking, Actor: actor, Booking: &booking})
	return nil
}

// CancelBooking transitions a booking to cancelled and returns the
// updated entry. A second cancel returns ErrAlreadyCancelled, not a
// silent success.
func (l *Ledger) CancelBooking(id string, actor string) (model.Booking, error) {
	for i := range l.bookings {
		if l.bookings[i].ID != id {
			continue
		}
		if l.bookings[i].Status == model.BookingCancelled {
			return model.Booking{}, ErrAlreadyCancelled
		}
		l.bookings[i].Status = model.BookingCancelled
		cancelled := l.bookings[i]
		l.record(Mutation{Op: MutationCancelBooking, Actor: actor, Booking: &cancelled})
		return cancelled, nil
	}
	return model.Booking{}, ErrNotFound
}

// AddBlock appends an administrative block. The caller must have run
// EvaluateBlock first; overlap with a confirmed booking fails with
// ErrInvariantViolation.
func (l *Ledger) AddBlock(block model.Block, actor string) error {
	if !block.Window.IsValid() {
		return ErrInvalidWindow
	}
	for _, b := range l.bookings {
		if b.Status == model.BookingConfirmed && b.Window.Overlaps(block.Window) {
			return ErrInvariantViolation
		}
	}

	l.blocks = append(l.blocks, block)
	l.record(Mutation{Op: MutationAddBlock, Actor: actor, Block: &block})
	return nil
}

// RemoveBlock deletes a block and returns it so the caller can run
// promotion over the freed window.
func (l *Ledger) RemoveBlock(id string, actor string) (model.Block, error) {
	for i := range l.blocks {
		if l.blocks[i].ID != id {
			continue
		}
		removed := l.blocks[i]
		l.blocks = append(l.blocks[:i], l.blocks[i+1:]...)
		l.record(Mutation{Op: MutationRemoveBlock, Actor: actor, Block: &removed})
		return removed, nil
	}
	return model.Block{}, ErrNotFound
}

// EnqueueWaitlist appends a party to the queue tail.
func (l *Ledger) EnqueueWaitlist(entry model.WaitlistEntry, actor string) error {
	if !entry.Window.IsValid() {
		return ErrInvalidWindow
	}
	l.waitlist = append(l.waitlist, entry)
	l.record(Mutation{Op: MutationEnqueueWaitlist, Actor: actor, Waitlist: &entry})
	return nil
}

// DequeueNext removes and returns the queue head, if any.
func (l *Ledger) DequeueNext(actor string) (model.WaitlistEntry, bool) {
	if len(l.waitlist) == 0 {
		return model.WaitlistEntry{}, false
	}
	head := l.waitlist[0]
	l.waitlist = l.waitlist[1:]
	l.record(Mutation{Op: MutationRemoveWaitlist, Actor: actor, Waitlist: &head})
	return head, true
}

// DequeueNextFor removes and returns the first party waiting for the
// given window, preserving FIFO order among matching entries.
func (l *Ledger) DequeueNextFor(window model.TimeWindow, actor string) (model.WaitlistEntry, bool) {
	for i := range l.waitlist {
		if !l.waitlist[i].Window.Overlaps(window) {
			continue
		}
		entry := l.waitlist[i]
		l.waitlist = append(l.waitlist[:i], l.waitlist[i+1:]...)
		l.record(Mutation{Op: MutationRemoveWaitlist, Actor: actor, Waitlist: &entry})
		return entry, true
	}
	return model.WaitlistEntry{}, false
}

// RemoveFromWaitlist withdraws a party from the queue.
func (l *Ledger) RemoveFromWaitlist(partyID string, actor string) error {
	for i := range l.waitlist {
		if l.waitlist[i].PartyID != partyID {
			continue
		}
		entry := l.waitlist[i]
		l.waitlist = append(l.waitlist[:i], l.waitlist[i+1:]...)
		l.record(Mutation{Op: MutationRemoveWaitlist, Actor: actor, Waitlist: &entry})
		return nil
	}
	return ErrNotFound
}

func (l *Ledger) maxConcurrent() int {
	if l.policy.MaxConcurrent < 1 {
		return 1
	}
	return l.policy.MaxConcurrent
}

func (l *Ledger) record(m Mutation) {
	m.ResourceID = l.resourceID
	m.At = time.Now().UTC()
	l.mutations = append(l.mutations, m)
}
