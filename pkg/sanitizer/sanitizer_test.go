package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Focus  Room   3", "Focus Room 3"},
		{"\tAda   Lovelace \n", "Ada Lovelace"},
		{"already clean", "already clean"},
	}

	for _, tc := range cases {
		if got := TrimAndNormalize(tc.in); got != tc.want {
			t.Errorf("TrimAndNormalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeLabel(t *testing.T) {
	if got := NormalizeLabel("  Berlin   HQ "); got != "berlin hq" {
		t.Errorf("NormalizeLabel = %q, want %q", got, "berlin hq")
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"+1 650 253 0000", "+16502530000"},
		{"not a phone", ""},
	}

	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
