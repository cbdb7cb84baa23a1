package engine

import "errors"

var (
	// ErrInvalidWindow marks malformed caller input. It is always returned
	// to the caller and never retried.
	ErrInvalidWindow = errors.New("time window is invalid")

	// ErrNotFound is returned when a mutation references an entry the
	// ledger does not hold.
	ErrNotFound = errors.New("entry not found in ledger")

	// ErrAlreadyCancelled is returned on a second cancel of the same
	// booking. Cancellation is deliberately not idempotent.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrInvariantViolation means a mutation would break the no-overlap or
	// capacity invariant. It implies the caller bypassed per-resource
	// serialization and should be treated as an alertable fault.
	ErrInvariantViolation = errors.New("ledger invariant violation")
)
