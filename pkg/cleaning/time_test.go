package cleaning

import (
	"testing"

	"github.com/iccs-ops/apr-portal/pkg/table"
)

func TestNormalizeClockTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"02:36.3", "00:02:36"},
		{"00:02.7", "00:00:02"},
		{"01:02:03.9", "01:02:03"},
		{"9:5:1", "09:05:01"},
		{"12:34", "00:12:34"},
		{"", "00:00:00"},
		{"   ", "00:00:00"},
		{"garbage", "00:00:00"},
		{"1:2:3:4", "00:00:00"},
		{"ab:cd", "00:00:00"},
	}
	for _, c := range cases {
		if got := NormalizeClockTime(c.in); got != c.want {
			t.Errorf("NormalizeClockTime(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTimeToMinutes(t *testing.T) {
	if got := timeToMinutes(table.Text("02:30:00")); got != 150 {
		t.Errorf("expected 150 minutes, got %v", got)
	}
	if got := timeToMinutes(table.Text("00:00:30")); got != 0.5 {
		t.Errorf("expected 0.5 minutes, got %v", got)
	}
	if got := timeToMinutes(table.Text("bogus")); got != 0 {
		t.Errorf("expected 0 for unparsable input, got %v", got)
	}
	if got := timeToMinutes(table.Text("12:34")); got != 0 {
		t.Errorf("expected 0 for two-part input, got %v", got)
	}
	if got := timeToMinutes(table.Number(42)); got != 42 {
		t.Errorf("expected numeric passthrough, got %v", got)
	}
	if got := timeToMinutes(table.Empty()); got != 0 {
		t.Errorf("expected 0 for empty cell, got %v", got)
	}
}
