package slot

import (
	"reflect"
	"testing"
)

func TestExpand(t *testing.T) {
	cases := []struct {
		name  string
		start int
		hours int
		want  []string
	}{
		{"single hour", 10, 1, []string{"10:00"}},
		{"midday block", 10, 3, []string{"10:00", "11:00", "12:00"}},
		{"wraps past midnight", 22, 5, []string{"22:00", "23:00", "00:00", "01:00", "02:00"}},
		{"starts at midnight", 0, 2, []string{"00:00", "01:00"}},
		{"last hour of the day", 23, 1, []string{"23:00"}},
		{"zero hours", 9, 0, []string{}},
		{"negative hours", 9, -3, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Expand(tc.start, tc.hours)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Expand(%d, %d) = %v, want %v", tc.start, tc.hours, got, tc.want)
			}
		})
	}
}

// Durations beyond a full day repeat labels instead of deduplicating.
// The service layer rejects such requests, but the arithmetic itself
// keeps the historical behaviour.
func TestExpandBeyondFullDay(t *testing.T) {
	got := Expand(23, 26)
	if len(got) != 26 {
		t.Fatalf("expected 26 labels, got %d", len(got))
	}
	if got[0] != "23:00" || got[1] != "00:00" {
		t.Fatalf("unexpected leading labels: %v", got[:2])
	}
	// hour 23 appears again at offset 24
	if got[24] != "23:00" || got[25] != "00:00" {
		t.Fatalf("expected repeated labels at the tail, got %v", got[24:])
	}
}

func TestWindowContains(t *testing.T) {
	cases := []struct {
		name   string
		window Window
		hour   int
		want   bool
	}{
		{"inside normal window", NewWindow(10, 3), 11, true},
		{"start hour inclusive", NewWindow(10, 3), 10, true},
		{"end hour exclusive", NewWindow(10, 3), 13, false},
		{"before normal window", NewWindow(10, 3), 9, false},
		{"wrapping covers late evening", NewWindow(22, 5), 23, true},
		{"wrapping covers early morning", NewWindow(22, 5), 1, true},
		{"wrapping excludes end", NewWindow(22, 5), 3, false},
		{"wrapping excludes midday", NewWindow(22, 5), 12, false},
		{"full day covers everything", NewWindow(8, 24), 7, true},
		{"full day covers start", NewWindow(8, 24), 8, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.window.Contains(tc.hour); got != tc.want {
				t.Fatalf("%+v.Contains(%d) = %v, want %v", tc.window, tc.hour, got, tc.want)
			}
		})
	}
}

func TestConflicts(t *testing.T) {
	cases := []struct {
		name      string
		requested []int
		existing  []Window
		want      []string
	}{
		{
			name:      "no overlap",
			requested: Hours(10, 3),
			existing:  []Window{NewWindow(14, 2)},
			want:      []string{},
		},
		{
			name:      "partial overlap lists only intersecting slots",
			requested: Hours(11, 4),
			existing:  []Window{NewWindow(13, 3)},
			want:      []string{"13:00", "14:00"},
		},
		{
			name:      "request inside wrapping booking",
			requested: Hours(1, 1),
			existing:  []Window{NewWindow(22, 5)},
			want:      []string{"01:00"},
		},
		{
			name:      "wrapping request against normal booking",
			requested: Hours(23, 3),
			existing:  []Window{NewWindow(1, 2)},
			want:      []string{"01:00"},
		},
		{
			name:      "multiple bookings union",
			requested: Hours(9, 6),
			existing:  []Window{NewWindow(10, 1), NewWindow(13, 2)},
			want:      []string{"10:00", "13:00", "14:00"},
		},
		{
			name:      "same slot conflicting twice stays duplicated",
			requested: Hours(10, 1),
			existing:  []Window{NewWindow(9, 2), NewWindow(10, 3)},
			want:      []string{"10:00", "10:00"},
		},
		{
			name:      "no existing bookings",
			requested: Hours(0, 24),
			existing:  nil,
			want:      []string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Conflicts(tc.requested, tc.existing)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Conflicts(%v, %v) = %v, want %v", tc.requested, tc.existing, got, tc.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if got := Label(5); got != "05:00" {
		t.Fatalf("Label(5) = %q", got)
	}
	if got := Label(26); got != "02:00" {
		t.Fatalf("Label(26) = %q", got)
	}
	if got := Label(-1); got != "23:00" {
		t.Fatalf("Label(-1) = %q", got)
	}
}
