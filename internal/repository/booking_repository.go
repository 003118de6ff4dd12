package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/courtbook/court-booking/internal/model"
	"github.com/courtbook/court-booking/internal/slot"
)

// BookingRepo provides persistence for court bookings.  All timestamp
// columns are stored in UTC; the date column is a plain DATE holding
// the court-local calendar day.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, name, email, phone, date, start_hour, hours,
	total_price, status, payment_status, confirmation_token,
	confirmed_at, canceled_at, created_at, updated_at`

// scanBooking reads one booking row.  The row must select
// bookingColumns in order.
func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var (
		b         model.Booking
		date      time.Time
		token     sql.NullString
		confirmed sql.NullTime
		canceled  sql.NullTime
	)
	err := row.Scan(
		&b.ID, &b.UserID, &b.Name, &b.Email, &b.Phone, &date, &b.StartHour, &b.Hours,
		&b.TotalPrice, &b.Status, &b.PaymentStatus, &token,
		&confirmed, &canceled, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Date = date.Format("2006-01-02")
	if token.Valid {
		t := token.String
		b.ConfirmationToken = &t
	}
	if confirmed.Valid {
		t := confirmed.Time
		b.ConfirmedAt = &t
	}
	if canceled.Valid {
		t := canceled.Time
		b.CanceledAt = &t
	}
	return &b, nil
}

// CreateIfAvailable inserts a booking unless any of the requested
// hours collide with an existing non-cancelled booking on the same
// date.  The availability check and the insert run in one transaction
// and the check locks the date's booking rows with FOR UPDATE, so two
// concurrent requests for overlapping slots serialize instead of both
// passing the check.  On conflict the returned slice lists the
// conflicting slot labels and nothing is inserted.  On success the
// record's ID and timestamps are populated from the stored row.
func (r *BookingRepo) CreateIfAvailable(ctx context.Context, b *model.Booking, requestedHours []int) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const lockQ = `SELECT start_hour, hours FROM bookings
	               WHERE date = ? AND status <> 'cancelled'
	               FOR UPDATE`
	rows, err := tx.QueryContext(ctx, lockQ, b.Date)
	if err != nil {
		return nil, err
	}
	windows := make([]slot.Window, 0)
	for rows.Next() {
		var startHour, hours int
		if err := rows.Scan(&startHour, &hours); err != nil {
			rows.Close()
			return nil, err
		}
		windows = append(windows, slot.NewWindow(startHour, hours))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if conflicts := slot.Conflicts(requestedHours, windows); len(conflicts) > 0 {
		return conflicts, nil
	}

	const insQ = `INSERT INTO bookings
	              (user_id, name, email, phone, date, start_hour, hours,
	               total_price, status, payment_status, confirmation_token)
	              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insQ,
		b.UserID, b.Name, b.Email, b.Phone, b.Date, b.StartHour, b.Hours,
		b.TotalPrice, b.Status, b.PaymentStatus, b.ConfirmationToken,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	b.ID = uint64(id)

	// Query back the full row to populate timestamps and defaults.
	stored, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID))
	if err != nil {
		return nil, err
	}
	*b = *stored

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return nil, nil
}

// GetByID returns a booking by id regardless of owner.  It is used by
// the token-gated confirmation flow and by admin cancellation.
// sql.ErrNoRows is returned when the booking does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
}

// GetByIDForUser returns a booking only when it belongs to the given
// user.  Ownership is folded into the WHERE clause so a booking owned
// by someone else yields the same sql.ErrNoRows as a missing one and
// callers cannot probe for other users' booking ids.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? AND user_id = ?`, id, userID))
}

// MarkConfirmed transitions a booking to confirmed, stamping the
// confirmation time and clearing the one-time token.
func (r *BookingRepo) MarkConfirmed(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'confirmed', confirmed_at = ?, confirmation_token = NULL
		 WHERE id = ?`, at.UTC(), id)
	return err
}

// MarkCancelled transitions a booking to cancelled, stamping the
// cancellation time.  When refund is true the payment status flips to
// refunded in the same statement.
func (r *BookingRepo) MarkCancelled(ctx context.Context, id uint64, at time.Time, refund bool) error {
	if refund {
		_, err := r.db.ExecContext(ctx,
			`UPDATE bookings SET status = 'cancelled', canceled_at = ?, payment_status = 'refunded'
			 WHERE id = ?`, at.UTC(), id)
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'cancelled', canceled_at = ? WHERE id = ?`, at.UTC(), id)
	return err
}

// ListByUser returns all bookings owned by the user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveOnDate returns the non-cancelled bookings on a date,
// ordered by start hour.  The booked-slots listing flattens these into
// occupied slot labels.
func (r *BookingRepo) ListActiveOnDate(ctx context.Context, date string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE date = ? AND status <> 'cancelled'
		 ORDER BY start_hour`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
