package domain

import "time"

// Session is the server-side record of an issued refresh token. Exactly one
// session owns a given token value; deleting the session revokes the token.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TokenKind discriminates single-use token variants.
type TokenKind string

const (
	TokenKindPasswordReset     TokenKind = "password_reset"
	TokenKindEmailVerification TokenKind = "email_verification"
)

// SingleUseToken grants one action (password reset or email verification).
// Once Used is set or the expiry has passed, the token is permanently dead;
// consumption checks both in one atomic update.
type SingleUseToken struct {
	Token     string    `json:"-"`
	Kind      TokenKind `json:"kind"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}
