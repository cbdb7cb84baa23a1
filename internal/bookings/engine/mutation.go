package engine

import (
	"time"

	"deskhive/pkg/model"
)

// MutationOp names a ledger state transition.
type MutationOp string

const (
	MutationAddBooking      MutationOp = "add_booking"
	MutationCancelBooking   MutationOp = "cancel_booking"
	MutationAddBlock        MutationOp = "add_block"
	MutationRemoveBlock     MutationOp = "remove_block"
	MutationEnqueueWaitlist MutationOp = "enqueue_waitlist"
	MutationRemoveWaitlist  MutationOp = "remove_waitlist"
)

// Mutation records one applied ledger transition for the Store to
// persist and for the audit trail. Exactly one of Booking, Block or
// Waitlist is set, matching Op.
type Mutation struct {
	Op         MutationOp           `json:"op" bson:"op"`
	ResourceID string               `json:"resource_id" bson:"resource_id"`
	Actor      string               `json:"actor" bson:"actor"`
	At         time.Time            `json:"at" bson:"at"`
	Booking    *model.Booking       `json:"booking,omitempty" bson:"booking,omitempty"`
	Block      *model.Block         `json:"block,omitempty" bson:"block,omitempty"`
	Waitlist   *model.WaitlistEntry `json:"waitlist,omitempty" bson:"waitlist,omitempty"`
}
