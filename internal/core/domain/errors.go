package domain

import "errors"

// Sentinel errors returned by the core. Handlers map these to HTTP codes;
// services wrap them with %w so callers can test with errors.Is.
var (
	// ErrInvalidCredentials covers unknown email, deactivated account, and
	// password mismatch alike so that login responses cannot be used to
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidSession is returned when a refresh token fails verification
	// or has no live session record (revoked, expired, or rotated away).
	ErrInvalidSession = errors.New("invalid session")

	// ErrTokenInvalid is returned for single-use tokens that are unknown,
	// already consumed, or past their expiry.
	ErrTokenInvalid = errors.New("invalid or expired token")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")

	// ErrConflict signals a unique-key collision on creation. For session
	// tokens this is effectively unreachable given token entropy, but it is
	// retryable rather than fatal.
	ErrConflict = errors.New("resource conflict")

	ErrForbidden = errors.New("access forbidden")

	// ErrStorageUnavailable wraps transient persistence failures. The core
	// never retries these; callers decide.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
