package engine

// Outcome is the result class of a conflict evaluation.
type Outcome string

const (
	OutcomeAccepted   Outcome = "accepted"
	OutcomeRejected   Outcome = "rejected"
	OutcomeWaitlisted Outcome = "waitlisted"
)

// RejectionReason narrows a rejected outcome. Rejections are expected
// business results, not errors.
type RejectionReason string

const (
	// ReasonBlocked: the window overlaps an administrative block.
	ReasonBlocked RejectionReason = "blocked"
	// ReasonScheduleConflict: the window overlaps a confirmed booking on an
	// exclusive resource.
	ReasonScheduleConflict RejectionReason = "schedule_conflict"
	// ReasonFull: the capacity ceiling is reached and the resource has no
	// waitlist.
	ReasonFull RejectionReason = "full"
)

// Decision is the outcome of evaluating a candidate window against a
// resource's ledger. Overlapping reports how many confirmed bookings
// intersect the candidate window at evaluation time.
type Decision struct {
	Outcome     Outcome         `json:"outcome"`
	Reason      RejectionReason `json:"reason,omitempty"`
	Overlapping int             `json:"overlapping"`
}

func Accepted(overlapping int) Decision {
	return Decision{Outcome: OutcomeAccepted, Overlapping: overlapping}
}

func Rejected(reason RejectionReason, overlapping int) Decision {
	return Decision{Outcome: OutcomeRejected, Reason: reason, Overlapping: overlapping}
}

func Waitlisted(overlapping int) Decision {
	return Decision{Outcome: OutcomeWaitlisted, Overlapping: overlapping}
}
