package engine

import "deskhive/pkg/model"

// Evaluate decides whether a candidate window may be granted on the
// resource the ledger describes.
//
// Malformed windows are returned as ErrInvalidWindow. Business
// rejections are normal outcomes carried in the Decision, never errors.
// The capacity ceiling is hard: when the overlap count equals
// MaxConcurrent the request is waitlisted or rejected, never accepted.
//
// Evaluate does not mutate the ledger. The caller turns an accepted or
// waitlisted decision into the corresponding AddBooking or
// EnqueueWaitlist call under the same per-resource exclusion scope.
func Evaluate(l *Ledger, window model.TimeWindow, policy model.BookingPolicy) (Decision, error) {
	if !window.IsValid() {
		return Decision{}, ErrInvalidWindow
	}

	for _, b := range l.BlocksOn(window.Date) {
		if b.Window.Overlaps(window) {
			return Rejected(ReasonBlocked, 0), nil
		}
	}

	overlapping := 0
	for _, b := range l.ConfirmedBookingsOn(window.Date) {
		if b.Window.Overlaps(window) {
			overlapping++
		}
	}

	if !policy.CapacityBounded {
		if overlapping > 0 {
			return Rejected(ReasonScheduleConflict, overlapping), nil
		}
		return Accepted(0), nil
	}

	maxConcurrent := policy.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if overlapping < maxConcurrent {
		return Accepted(overlapping), nil
	}
	if policy.AllowWaitlist {
		return Waitlisted(overlapping), nil
	}
	return Rejected(ReasonFull, overlapping), nil
}

// EvaluateBlock checks an administrative block candidate. Blocks use
// exclusive semantics: any overlap with a confirmed booking is a
// conflict, so a block can never retroactively invalidate one.
func EvaluateBlock(l *Ledger, window model.TimeWindow) (Decision, error) {
	return Evaluate(l, window, model.ExclusivePolicy())
}
