package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The IsAdmin flag drives the admin-only tournament
// confirmation endpoint and lets admins cancel bookings, tournaments
// and team entries they do not own.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique display name used in notification emails.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  IsAdmin      – whether the user may call admin endpoints.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	IsAdmin      bool      // users.is_admin
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Actor is the authenticated identity handed to the service layer by
// the JWT middleware.  The services rely on it for ownership and
// authorization checks; they never perform authentication themselves.
type Actor struct {
	ID       uint64 // authenticated user id (JWT sub claim)
	Username string // username claim
	Email    string // email claim
	IsAdmin  bool   // is_admin claim
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user; only the SHA-256 hash of the raw
// token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
