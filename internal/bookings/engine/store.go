package engine

import "context"

// Store abstracts persistence for ledger state. LoadLedger returns a
// consistent snapshot; Commit persists a snapshot's mutations
// atomically for the resource. A failed Commit means none of the
// mutations are considered applied.
type Store interface {
	LoadLedger(ctx context.Context, resourceID string) (*Ledger, error)
	Commit(ctx context.Context, resourceID string, mutations []Mutation) error
}
