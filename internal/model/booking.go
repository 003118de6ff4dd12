package model

import "time"

// Booking status values.  A cancelled booking is terminal and never
// transitions to any other status.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Payment status values.  Refunded is only ever set as a side effect
// of cancelling a paid booking.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Booking records a court reservation as stored in the `bookings`
// table.  A booking occupies `Hours` consecutive hour slots starting
// at `StartHour` on `Date`; slots may wrap past midnight.  TotalPrice
// is computed once at creation (hours times the configured hourly
// rate) and never recomputed afterwards.
//
// Fields:
//  ID                – primary key identifier.
//  UserID            – owning user; only the owner (or an admin) may cancel.
//  Name              – customer name shown in notification emails.
//  Email             – customer email the confirmation link is sent to.
//  Phone             – customer contact phone.
//  Date              – calendar date of the booking (court-local day).
//  StartHour         – first occupied hour, 0-23 (minutes are always :00).
//  Hours             – duration in whole hours, at least 1.
//  TotalPrice        – hours × hourly rate at creation time.
//  Status            – pending/confirmed/completed/cancelled.
//  PaymentStatus     – unpaid/paid/refunded.
//  ConfirmationToken – opaque random token, present only between
//                      creation and confirmation (nil afterwards).
//  ConfirmedAt       – when the booking was confirmed (nullable).
//  CanceledAt        – when the booking was cancelled (nullable).
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type Booking struct {
	ID                uint64     // bookings.id
	UserID            uint64     // bookings.user_id
	Name              string     // bookings.name
	Email             string     // bookings.email
	Phone             string     // bookings.phone
	Date              string     // bookings.date (YYYY-MM-DD)
	StartHour         int        // bookings.start_hour
	Hours             int        // bookings.hours
	TotalPrice        int        // bookings.total_price
	Status            string     // bookings.status
	PaymentStatus     string     // bookings.payment_status
	ConfirmationToken *string    // bookings.confirmation_token (nullable)
	ConfirmedAt       *time.Time // bookings.confirmed_at (nullable)
	CanceledAt        *time.Time // bookings.canceled_at (nullable)
	CreatedAt         time.Time  // bookings.created_at
	UpdatedAt         time.Time  // bookings.updated_at
}
