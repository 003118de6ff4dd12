// Package slot implements the hour-slot arithmetic used by the booking
// subsystem.  The court is booked in whole-hour units on a 24-hour
// wheel, so a booking is fully described by its start hour and its
// duration in hours.  Both the slot expansion and the overlap check
// are pure functions; persistence and HTTP layers build on top of
// them without adding any scheduling logic of their own.
package slot

import "fmt"

// HoursPerDay is the size of the clock wheel.  Slot hours are always
// reduced modulo this value, which is what makes bookings that cross
// midnight work without special casing in callers.
const HoursPerDay = 24

// Label formats an hour on the 24-hour wheel as the canonical "HH:00"
// slot label used throughout the API and in conflict messages.
func Label(hour int) string {
	return fmt.Sprintf("%02d:00", ((hour % HoursPerDay) + HoursPerDay) % HoursPerDay)
}

// Expand returns the ordered sequence of slot labels occupied by a
// booking starting at startHour and lasting hours whole hours.  The
// sequence wraps past midnight when needed, e.g. Expand(22, 5) yields
// ["22:00" "23:00" "00:00" "01:00" "02:00"].  Durations longer than a
// full day repeat labels rather than deduplicate them; request
// validation caps hours before this becomes observable.
func Expand(startHour, hours int) []string {
	if hours <= 0 {
		return []string{}
	}
	out := make([]string, 0, hours)
	for offset := 0; offset < hours; offset++ {
		out = append(out, Label(startHour+offset))
	}
	return out
}

// Window describes the occupied range of an existing booking as a
// half-open interval of hours.  End is the post-modulo end hour; when
// Start >= End the window crosses midnight.
type Window struct {
	Start int // first occupied hour, 0-23
	End   int // (Start + hours) mod 24
}

// NewWindow builds the occupied window for a booking with the given
// start hour and duration.  The end hour is reduced modulo 24 so that
// wrap detection works even for durations of a day or more.
func NewWindow(startHour, hours int) Window {
	return Window{
		Start: ((startHour % HoursPerDay) + HoursPerDay) % HoursPerDay,
		End:   ((startHour + hours) % HoursPerDay + HoursPerDay) % HoursPerDay,
	}
}

// Contains reports whether the window occupies the given hour.  A
// normal window (Start < End) covers [Start, End).  A wrapping window
// (Start >= End) covers [Start, 24) plus [0, End); note that a
// duration of exactly 24 hours produces Start == End and therefore
// covers every hour of the day.
func (w Window) Contains(hour int) bool {
	if w.Start < w.End {
		return w.Start <= hour && hour < w.End
	}
	return hour >= w.Start || hour < w.End
}

// Conflicts returns the requested slot hours that fall inside any of
// the existing windows.  The result preserves the order of the
// requested slice and may contain the same hour more than once when a
// slot collides with several bookings, matching what conflict messages
// have always shown to callers.
func Conflicts(requested []int, existing []Window) []string {
	conflicting := []string{}
	for _, w := range existing {
		for _, hour := range requested {
			if w.Contains(hour) {
				conflicting = append(conflicting, Label(hour))
			}
		}
	}
	return conflicting
}

// Hours returns the wheel-reduced hour values a booking occupies, in
// order.  It mirrors Expand but yields ints for the overlap check
// instead of display labels.
func Hours(startHour, hours int) []int {
	if hours <= 0 {
		return []int{}
	}
	out := make([]int, 0, hours)
	for offset := 0; offset < hours; offset++ {
		out = append(out, ((startHour+offset)%HoursPerDay+HoursPerDay)%HoursPerDay)
	}
	return out
}
