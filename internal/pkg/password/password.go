// Package password wraps bcrypt hashing behind a fixed work factor so the
// cost can be raised in one place if hardware catches up.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor (2^12 iterations).
const Cost = 12

// Hash derives a salted bcrypt digest from the plaintext. The plaintext is
// never logged or stored anywhere by this package.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("password must not be empty")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plain matches the stored digest. Comparison is
// constant-time inside bcrypt. Malformed digests verify as false rather
// than erroring, so a corrupted record reads as a failed login.
func Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
