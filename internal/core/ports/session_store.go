package ports

import (
	"context"
	"time"

	"github.com/motorhaus/storefront-auth/internal/core/domain"
)

// SessionStore persists refresh-token sessions and single-use tokens. Every
// operation is atomic with respect to a single record; ConsumeSingleUseToken
// in particular must be a single compare-and-set so that concurrent redeem
// attempts produce exactly one winner.
type SessionStore interface {
	// CreateSession persists a refresh-token session. Returns
	// domain.ErrConflict if the token value already exists.
	CreateSession(ctx context.Context, userID, refreshToken string, expiresAt time.Time) error

	// FindSessionByToken returns the session or domain.ErrInvalidSession.
	FindSessionByToken(ctx context.Context, refreshToken string) (*domain.Session, error)

	// DeleteSession removes the session owning the token. Deleting a
	// non-existent session is not an error.
	DeleteSession(ctx context.Context, refreshToken string) error

	// DeleteAllSessionsForUser revokes every session of the user.
	DeleteAllSessionsForUser(ctx context.Context, userID string) error

	// CreateSingleUseToken mints and persists an opaque random token of the
	// given kind, returning the token string handed to the mail dispatcher.
	CreateSingleUseToken(ctx context.Context, kind domain.TokenKind, userID, email string, ttl time.Duration) (string, error)

	// ConsumeSingleUseToken atomically marks an unused, unexpired token as
	// used and returns its record. Returns domain.ErrTokenInvalid when the
	// token is unknown, already used, or expired.
	ConsumeSingleUseToken(ctx context.Context, kind domain.TokenKind, token string) (*domain.SingleUseToken, error)
}
