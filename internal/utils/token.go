package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"     // secure random number generation
	"crypto/sha256"   // SHA-256 hashing for refresh tokens
	"encoding/base64" // URL-safe encoding for confirmation tokens
	"encoding/hex"    // hex encoding for refresh tokens
)

// NewConfirmationToken returns an opaque random token suitable for
// embedding in a booking confirmation link.  It draws 32 bytes of
// entropy and encodes them with the unpadded URL-safe base64 alphabet,
// so the result can be placed in a query string without escaping.
func NewConfirmationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as
// a hex string.  Storing only the hash in the database prevents
// attackers from using stolen database entries to refresh sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.  It is used to produce
// refresh tokens.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
