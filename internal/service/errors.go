// Package service implements the booking and tournament lifecycles on
// top of the repository layer.  All domain failures are expressed as
// the typed errors in this file so that handlers can translate them
// into HTTP responses without inspecting message strings.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for state-machine guard violations and access
// failures.  ErrNotFound covers both a missing record and a record
// owned by someone else on owner-scoped lookups, so callers cannot
// probe for the existence of other users' bookings.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("not allowed")
	ErrInvalidToken       = errors.New("invalid confirmation token")
	ErrAlreadyCancelled   = errors.New("already cancelled")
	ErrInvalidState       = errors.New("not possible in the current state")
	ErrPastBooking        = errors.New("booking time has already passed")
	ErrRegistrationClosed = errors.New("registration closed")
	ErrCapacityReached    = errors.New("team limit reached")
)

// ValidationError reports malformed or missing input, keyed per field
// so clients can render messages next to the offending form inputs.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// newValidationError returns nil when no field problems were recorded
// so call sites can unconditionally build the map and return the
// result.
func newValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// SlotConflictError is returned when a requested booking overlaps
// existing non-cancelled bookings.  Slots lists the conflicting hour
// labels verbatim (duplicates preserved) so the caller can re-render
// availability.
type SlotConflictError struct {
	Slots []string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("time slot not available: the following hours are already booked: %s",
		strings.Join(e.Slots, ", "))
}
