package model

import "testing"

func TestTimeWindow_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		window TimeWindow
		want   bool
	}{
		{"valid", NewTimeWindow("2026-09-01", "09:00", "17:30"), true},
		{"zero length", NewTimeWindow("2026-09-01", "09:00", "09:00"), false},
		{"end before start", NewTimeWindow("2026-09-01", "17:00", "09:00"), false},
		{"bad date", NewTimeWindow("01-09-2026", "09:00", "17:00"), false},
		{"bad time", NewTimeWindow("2026-09-01", "9am", "17:00"), false},
		{"missing fields", TimeWindow{}, false},
		{"midnight to end of day", NewTimeWindow("2026-09-01", "00:00", "23:59"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.IsValid(); got != tt.want {
				t.Errorf("IsValid(%s) = %v, want %v", tt.window, got, tt.want)
			}
		})
	}
}

func TestTimeWindow_Overlaps(t *testing.T) {
	base := NewTimeWindow("2026-09-01", "10:00", "11:00")

	tests := []struct {
		name  string
		other TimeWindow
		want  bool
	}{
		{"identical", NewTimeWindow("2026-09-01", "10:00", "11:00"), true},
		{"partial overlap", NewTimeWindow("2026-09-01", "10:30", "11:30"), true},
		{"contained", NewTimeWindow("2026-09-01", "10:15", "10:45"), true},
		{"containing", NewTimeWindow("2026-09-01", "09:00", "12:00"), true},
		{"touching at end", NewTimeWindow("2026-09-01", "11:00", "12:00"), false},
		{"touching at start", NewTimeWindow("2026-09-01", "09:00", "10:00"), false},
		{"disjoint", NewTimeWindow("2026-09-01", "13:00", "14:00"), false},
		{"other date", NewTimeWindow("2026-09-02", "10:00", "11:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("%s.Overlaps(%s) = %v, want %v", base, tt.other, got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Errorf("%s.Overlaps(%s) = %v, want %v", tt.other, base, got, tt.want)
			}
		})
	}
}

func TestTimeWindow_Contains(t *testing.T) {
	w := NewTimeWindow("2026-09-01", "10:00", "11:00")

	if !w.Contains("10:00") {
		t.Errorf("start point is inside a half-open window")
	}
	if !w.Contains("10:30") {
		t.Errorf("interior point must be contained")
	}
	if w.Contains("11:00") {
		t.Errorf("end point is outside a half-open window")
	}
	if w.Contains("09:59") {
		t.Errorf("point before start must not be contained")
	}
}
