package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash at the configured cost.  The cost
// comes from configuration so tests can run with a cheap setting.
func HashPassword(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// Any comparison failure, malformed hash included, reads as a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
