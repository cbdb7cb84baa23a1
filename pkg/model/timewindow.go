package model

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TimeWindow is a day-scoped half-open interval [Start, End) on a single
// calendar date. Times are zero-padded "HH:MM" strings, so lexicographic
// comparison matches chronological order. Immutable once constructed.
type TimeWindow struct {
	Date  string `json:"date" bson:"date" validate:"required,booking_date"`
	Start string `json:"start" bson:"start" validate:"required,booking_time"`
	End   string `json:"end" bson:"end" validate:"required,booking_time"`
}

func NewTimeWindow(date, start, end string) TimeWindow {
	return TimeWindow{Date: date, Start: start, End: end}
}

// IsValid reports whether the window is well-formed: parseable date and
// times, and a strictly positive length. Zero-length windows are invalid.
func (w TimeWindow) IsValid() bool {
	if _, err := time.Parse(DateLayout, w.Date); err != nil {
		return false
	}
	if _, err := time.Parse(TimeLayout, w.Start); err != nil {
		return false
	}
	if _, err := time.Parse(TimeLayout, w.End); err != nil {
		return false
	}
	return w.Start < w.End
}

// Overlaps reports whether two windows intersect. Half-open semantics:
// windows that only touch at an endpoint do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	if w.Date != other.Date {
		return false
	}
	return w.Start < other.End && other.Start < w.End
}

// Contains reports whether the "HH:MM" point falls inside the window.
func (w TimeWindow) Contains(point string) bool {
	return w.Start <= point && point < w.End
}

// Equal reports whether two windows describe the same interval.
func (w TimeWindow) Equal(other TimeWindow) bool {
	return w.Date == other.Date && w.Start == other.Start && w.End == other.End
}

func (w TimeWindow) String() string {
	return w.Date + " [" + w.Start + ", " + w.End + ")"
}
