// Package token issues and verifies the signed bearer tokens used by the
// auth core. Access and refresh tokens are HS256 JWTs signed with separate
// purpose-specific secrets, so one kind can never be replayed as the other.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/motorhaus/storefront-auth/internal/core/domain"
)

// Purpose selects which signing secret a token is bound to.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
	defaultIssuer     = "storefront-auth"
)

// Claims is the payload embedded in every issued token.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Status discriminates verification outcomes. Callers must treat anything
// other than StatusOK as unauthenticated; the HTTP layer never tells the
// client which failure occurred.
type Status int

const (
	StatusOK Status = iota
	StatusExpired
	StatusInvalid
)

// VerifyResult carries the outcome of Verify. Claims is non-nil only when
// Status is StatusOK.
type VerifyResult struct {
	Status Status
	Claims *Claims
}

// Codec signs and verifies tokens. Construct once at startup and share; it
// is immutable and safe for concurrent use.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// Config carries Codec construction parameters. Zero TTLs fall back to the
// defaults (1h access, 7d refresh).
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// NewCodec validates the secrets and returns a ready Codec.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("token: signing secrets must not be empty")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
		now:           time.Now,
	}, nil
}

// IssueAccess signs a short-lived access token for the user.
func (c *Codec) IssueAccess(userID string, role domain.Role) (string, time.Time, error) {
	return c.issue(userID, role, PurposeAccess, c.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the user. The caller is
// responsible for persisting the matching session record.
func (c *Codec) IssueRefresh(userID string, role domain.Role) (string, time.Time, error) {
	return c.issue(userID, role, PurposeRefresh, c.refreshTTL)
}

func (c *Codec) issue(userID string, role domain.Role, purpose Purpose, ttl time.Duration) (string, time.Time, error) {
	now := c.now().UTC()
	expiresAt := now.Add(ttl)

	// A random jti makes every issued token unique even when two tokens for
	// the same user are minted within the same second. Session records are
	// keyed by token value, so uniqueness matters.
	jti, err := randomID()
	if err != nil {
		return "", time.Time{}, err
	}

	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secretFor(purpose))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the signature against the purpose-specific secret and that
// the current time falls within [iat, exp). Every failure collapses into
// StatusExpired or StatusInvalid; no error values escape, which keeps the
// caller from accidentally treating a parse failure as authenticated.
func (c *Codec) Verify(tokenString string, purpose Purpose) VerifyResult {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	parsed, err := parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secretFor(purpose), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return VerifyResult{Status: StatusExpired}
		}
		return VerifyResult{Status: StatusInvalid}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return VerifyResult{Status: StatusInvalid}
	}
	return VerifyResult{Status: StatusOK, Claims: claims}
}

func randomID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (c *Codec) secretFor(purpose Purpose) []byte {
	if purpose == PurposeRefresh {
		return c.refreshSecret
	}
	return c.accessSecret
}
