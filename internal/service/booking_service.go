package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/courtbook/court-booking/internal/model"
	"github.com/courtbook/court-booking/internal/notify"
	"github.com/courtbook/court-booking/internal/queue"
	"github.com/courtbook/court-booking/internal/slot"
	"github.com/courtbook/court-booking/internal/utils"
)

// BookingStore is the persistence surface the booking lifecycle needs.
// *repository.BookingRepo satisfies it in production; tests provide an
// in-memory fake.  Lookups return sql.ErrNoRows for missing records,
// matching what the repository layer produces.
type BookingStore interface {
	CreateIfAvailable(ctx context.Context, b *model.Booking, requestedHours []int) ([]string, error)
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Booking, error)
	MarkConfirmed(ctx context.Context, id uint64, at time.Time) error
	MarkCancelled(ctx context.Context, id uint64, at time.Time, refund bool) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListActiveOnDate(ctx context.Context, date string) ([]model.Booking, error)
}

// EmailPublisher hands rendered emails to the outbound queue.  Publish
// failures are logged by the services and never fail the operation
// that triggered them.
type EmailPublisher interface {
	PublishEmail(ctx context.Context, event queue.EmailEvent) error
}

// BookingService implements the booking lifecycle: creation behind the
// availability gate, token-based confirmation, and owner cancellation
// with its temporal guard.  All notification dispatch happens after
// the corresponding state change has been persisted.
type BookingService struct {
	store      BookingStore
	mail       EmailPublisher
	hourlyRate int
	confirmURL string
	adminEmail string
	loc        *time.Location
	now        func() time.Time
}

// NewBookingService wires the booking lifecycle.  loc is the court's
// time zone, used when deciding whether a booking has already started.
func NewBookingService(store BookingStore, mail EmailPublisher, hourlyRate int, confirmURL, adminEmail string, loc *time.Location) *BookingService {
	return &BookingService{
		store:      store,
		mail:       mail,
		hourlyRate: hourlyRate,
		confirmURL: confirmURL,
		adminEmail: adminEmail,
		loc:        loc,
		now:        time.Now,
	}
}

// CreateBookingInput carries the raw request fields for a new booking.
// Date is YYYY-MM-DD and Time is HH:MM on a 24-hour clock; bookings
// always start on the hour, so any minutes are ignored.
type CreateBookingInput struct {
	Name  string
	Email string
	Phone string
	Date  string
	Time  string
	Hours int
}

// CreateBookingResult is returned on successful creation.  EndTime and
// Total duplicate derivable values so clients can render the summary
// without recomputing it.
type CreateBookingResult struct {
	Booking *model.Booking
	Slots   []string
	EndTime string
	Total   int
}

// Create validates the request, checks availability and persists the
// booking with a fresh confirmation token.  On success the customer
// receives a confirmation link and the operator a full summary; email
// failures are logged and never undo the booking.
func (s *BookingService) Create(ctx context.Context, actor model.Actor, in CreateBookingInput) (*CreateBookingResult, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "this field is required"
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		fields["email"] = "this field is required"
	} else if !strings.Contains(email, "@") {
		fields["email"] = "enter a valid email address"
	}
	if strings.TrimSpace(in.Phone) == "" {
		fields["phone"] = "this field is required"
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		fields["date"] = "enter a valid date (YYYY-MM-DD)"
	}
	startHour := -1
	if t, err := time.Parse("15:04", in.Time); err == nil {
		startHour = t.Hour()
	} else {
		fields["time"] = "enter a valid time (HH:MM)"
	}
	if in.Hours < 1 {
		fields["hours"] = "must be at least 1"
	} else if in.Hours > slot.HoursPerDay {
		fields["hours"] = "cannot exceed 24"
	}
	if err := newValidationError(fields); err != nil {
		return nil, err
	}

	token, err := utils.NewConfirmationToken()
	if err != nil {
		return nil, err
	}
	b := &model.Booking{
		UserID:            actor.ID,
		Name:              strings.TrimSpace(in.Name),
		Email:             email,
		Phone:             strings.TrimSpace(in.Phone),
		Date:              in.Date,
		StartHour:         startHour,
		Hours:             in.Hours,
		TotalPrice:        in.Hours * s.hourlyRate,
		Status:            model.BookingPending,
		PaymentStatus:     model.PaymentUnpaid,
		ConfirmationToken: &token,
	}

	conflicts, err := s.store.CreateIfAvailable(ctx, b, slot.Hours(startHour, in.Hours))
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &SlotConflictError{Slots: conflicts}
	}

	// Booking is committed; emails are best-effort from here on.
	s.publish(ctx, notify.BookingConfirmation(b, s.confirmURL, s.hourlyRate))
	s.publish(ctx, notify.BookingAdminAlert(b, s.adminEmail))

	return &CreateBookingResult{
		Booking: b,
		Slots:   slot.Expand(b.StartHour, b.Hours),
		EndTime: endClock(b.StartHour, b.Hours),
		Total:   b.TotalPrice,
	}, nil
}

// Confirm finalizes a booking via the emailed token.  Confirming an
// already-confirmed booking is a success without further mutation, so
// a customer clicking the email link twice sees the same answer both
// times.  AlreadyConfirmed reports which case occurred.
func (s *BookingService) Confirm(ctx context.Context, bookingID uint64, token string) (b *model.Booking, alreadyConfirmed bool, err error) {
	b, err = s.store.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}
	if b.Status == model.BookingCancelled {
		return nil, false, ErrAlreadyCancelled
	}
	if b.ConfirmedAt != nil {
		return b, true, nil
	}
	if b.ConfirmationToken == nil || token == "" || token != *b.ConfirmationToken {
		return nil, false, ErrInvalidToken
	}
	at := s.now().UTC()
	if err := s.store.MarkConfirmed(ctx, b.ID, at); err != nil {
		return nil, false, err
	}
	b.Status = model.BookingConfirmed
	b.ConfirmedAt = &at
	b.ConfirmationToken = nil
	return b, false, nil
}

// Cancel cancels a booking on behalf of its owner (or an admin).  A
// booking owned by someone else is reported as not found so callers
// cannot learn which ids exist.  Cancellation is refused once the
// start time has passed or the booking is already cancelled or
// completed; cancelling a paid booking flips it to refunded.
func (s *BookingService) Cancel(ctx context.Context, actor model.Actor, bookingID uint64) (b *model.Booking, refunded bool, err error) {
	if actor.IsAdmin {
		b, err = s.store.GetByID(ctx, bookingID)
	} else {
		b, err = s.store.GetByIDForUser(ctx, bookingID, actor.ID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}
	if b.Status == model.BookingCancelled || b.Status == model.BookingCompleted {
		return nil, false, ErrInvalidState
	}
	start, err := s.startTime(b)
	if err != nil {
		return nil, false, err
	}
	if !start.After(s.now()) {
		return nil, false, ErrPastBooking
	}
	refunded = b.PaymentStatus == model.PaymentPaid
	at := s.now().UTC()
	if err := s.store.MarkCancelled(ctx, b.ID, at, refunded); err != nil {
		return nil, false, err
	}
	b.Status = model.BookingCancelled
	b.CanceledAt = &at
	if refunded {
		b.PaymentStatus = model.PaymentRefunded
	}

	s.publish(ctx, notify.BookingCancelled(b, refunded))
	s.publish(ctx, notify.BookingCancelledAdminAlert(b, s.adminEmail, refunded))
	return b, refunded, nil
}

// ListForUser returns the actor's bookings, newest first.
func (s *BookingService) ListForUser(ctx context.Context, actor model.Actor) ([]model.Booking, error) {
	return s.store.ListByUser(ctx, actor.ID)
}

// BookedSlots flattens the non-cancelled bookings on a date into the
// distinct occupied slot labels, for calendar display.
func (s *BookingService) BookedSlots(ctx context.Context, date string) ([]string, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"date": "enter a valid date (YYYY-MM-DD)"}}
	}
	bookings, err := s.store.ListActiveOnDate(ctx, date)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, b := range bookings {
		for _, label := range slot.Expand(b.StartHour, b.Hours) {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			out = append(out, label)
		}
	}
	return out, nil
}

// startTime combines a booking's date and start hour in the court's
// time zone.
func (s *BookingService) startTime(b *model.Booking) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", b.Date, s.loc)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(b.StartHour) * time.Hour), nil
}

// publish hands an email to the queue, logging failures.  Email is
// best-effort: the state change that produced it has already been
// committed and must not be reported as failed.
func (s *BookingService) publish(ctx context.Context, ev queue.EmailEvent) {
	if err := s.mail.PublishEmail(ctx, ev); err != nil {
		log.Printf("booking: email publish failed (to=%s subject=%q): %v", ev.To, ev.Subject, err)
	}
}

// endClock renders the end of a booking window as "03:04 PM".
func endClock(startHour, hours int) string {
	h := ((startHour + hours) % 24 + 24) % 24
	return time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC).Format("03:04 PM")
}
