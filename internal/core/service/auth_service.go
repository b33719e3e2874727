package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/motorhaus/storefront-auth/internal/api/metrics"
	"github.com/motorhaus/storefront-auth/internal/core/domain"
	"github.com/motorhaus/storefront-auth/internal/core/ports"
	"github.com/motorhaus/storefront-auth/internal/pkg/password"
	"github.com/motorhaus/storefront-auth/internal/pkg/token"
)

const minPasswordLen = 8

// AuthService orchestrates credential verification, token issuance, session
// persistence, and permission checks. It is the only entry point the HTTP
// layer talks to.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	mailer   ports.Mailer
	throttle ports.LoginThrottle
	codec    *token.Codec
	perms    *domain.PermissionTable

	resetTTL      time.Duration
	verifyTTL     time.Duration
	rotateRefresh bool

	log zerolog.Logger
	now func() time.Time
}

// Options carries AuthService dependencies. Users, Sessions, Codec, and
// Perms are required; Mailer and Throttle may be nil (verification mails are
// then skipped and logins unthrottled).
type Options struct {
	Users    ports.UserRepository
	Sessions ports.SessionStore
	Mailer   ports.Mailer
	Throttle ports.LoginThrottle
	Codec    *token.Codec
	Perms    *domain.PermissionTable

	ResetTTL      time.Duration
	VerifyTTL     time.Duration
	RotateRefresh bool

	Logger zerolog.Logger
}

func NewAuthService(opts Options) *AuthService {
	if opts.ResetTTL <= 0 {
		opts.ResetTTL = 30 * time.Minute
	}
	if opts.VerifyTTL <= 0 {
		opts.VerifyTTL = 24 * time.Hour
	}
	return &AuthService{
		users:         opts.Users,
		sessions:      opts.Sessions,
		mailer:        opts.Mailer,
		throttle:      opts.Throttle,
		codec:         opts.Codec,
		perms:         opts.Perms,
		resetTTL:      opts.ResetTTL,
		verifyTTL:     opts.VerifyTTL,
		rotateRefresh: opts.RotateRefresh,
		log:           opts.Logger,
		now:           time.Now,
	}
}

// Register creates a user account with the default role. Public registration
// never grants elevated roles; those go through ChangeRole.
func (s *AuthService) Register(ctx context.Context, email, username, pass string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || len(pass) < minPasswordLen {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Email:        email,
		Username:     strings.TrimSpace(username),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	// Verification mail is best-effort: registration already succeeded.
	if err := s.issueVerification(ctx, created); err != nil {
		s.log.Warn().Err(err).Str("user_id", created.ID).Msg("could not send verification token")
	}
	return created, nil
}

// Login verifies the credential pair and opens a session. Unknown email,
// deactivated account, and wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, email, pass string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || pass == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			// Throttle backend outage fails open; the attempt proceeds.
			s.log.Warn().Err(err).Msg("login throttle unavailable")
		} else if !allowed {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrInvalidCredentials
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if !user.Active || !password.Verify(pass, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Clear(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("could not clear login throttle")
		}
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.AuthResult{Tokens: *pair, User: user}, nil
}

// Refresh exchanges a live refresh token for a new access token. With
// rotation enabled (the default) the refresh token and its session record
// are replaced in the same call, so the old token dies immediately.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	res := s.codec.Verify(refreshToken, token.PurposeRefresh)
	if res.Status != token.StatusOK {
		metrics.RefreshesTotal.WithLabelValues("invalid_session").Inc()
		return nil, domain.ErrInvalidSession
	}

	sess, err := s.sessions.FindSessionByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSession) {
			metrics.RefreshesTotal.WithLabelValues("invalid_session").Inc()
			return nil, domain.ErrInvalidSession
		}
		metrics.RefreshesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if sess.Expired(s.now().UTC()) {
		_ = s.sessions.DeleteSession(ctx, refreshToken)
		metrics.RefreshesTotal.WithLabelValues("invalid_session").Inc()
		return nil, domain.ErrInvalidSession
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil || !user.Active {
		metrics.RefreshesTotal.WithLabelValues("invalid_session").Inc()
		return nil, domain.ErrInvalidSession
	}

	access, _, err := s.codec.IssueAccess(user.ID, user.Role)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()

	pair := ports.TokenPair{AccessToken: access, RefreshToken: refreshToken}
	if s.rotateRefresh {
		if err := s.sessions.DeleteSession(ctx, refreshToken); err != nil {
			metrics.RefreshesTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		rotated, err := s.persistRefresh(ctx, user)
		if err != nil {
			metrics.RefreshesTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		pair.RefreshToken = rotated
	}

	metrics.RefreshesTotal.WithLabelValues("success").Inc()
	return &ports.AuthResult{Tokens: pair, User: user}, nil
}

// Logout revokes the session owning the refresh token. Idempotent: logging
// out an already-dead session succeeds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.DeleteSession(ctx, refreshToken)
}

// RequestPasswordReset mints a reset token for the account if it exists.
// The caller always sees success so responses cannot be used to probe for
// registered emails.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if !user.Active {
		return nil
	}

	tok, err := s.sessions.CreateSingleUseToken(ctx, domain.TokenKindPasswordReset, user.ID, user.Email, s.resetTTL)
	if err != nil {
		return err
	}
	metrics.SingleUseTokensTotal.WithLabelValues(string(domain.TokenKindPasswordReset), "issued").Inc()

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(ctx, user.Email, tok); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("could not dispatch reset mail")
		}
	}
	return nil
}

// ResetPassword redeems a reset token, stores the new password hash, and
// revokes every session of the user so stolen refresh tokens die with the
// old password.
func (s *AuthService) ResetPassword(ctx context.Context, tok, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return domain.ErrInvalidCredentials
	}

	record, err := s.sessions.ConsumeSingleUseToken(ctx, domain.TokenKindPasswordReset, tok)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			metrics.SingleUseTokensTotal.WithLabelValues(string(domain.TokenKindPasswordReset), "rejected").Inc()
		}
		return err
	}
	metrics.SingleUseTokensTotal.WithLabelValues(string(domain.TokenKindPasswordReset), "consumed").Inc()

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, record.UserID, hash); err != nil {
		return err
	}
	return s.sessions.DeleteAllSessionsForUser(ctx, record.UserID)
}

// RequestEmailVerification re-issues a verification token. Like the reset
// flow, it reports success regardless of whether the email matched.
func (s *AuthService) RequestEmailVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if !user.Active || user.EmailVerified {
		return nil
	}
	return s.issueVerification(ctx, user)
}

// ConfirmEmail redeems a verification token and flags the account verified.
func (s *AuthService) ConfirmEmail(ctx context.Context, tok string) error {
	record, err := s.sessions.ConsumeSingleUseToken(ctx, domain.TokenKindEmailVerification, tok)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			metrics.SingleUseTokensTotal.WithLabelValues(string(domain.TokenKindEmailVerification), "rejected").Inc()
		}
		return err
	}
	metrics.SingleUseTokensTotal.WithLabelValues(string(domain.TokenKindEmailVerification), "consumed").Inc()
	return s.users.MarkEmailVerified(ctx, record.UserID)
}

// Authorize verifies the access token and checks the embedded role against
// the permission table. It never mutates state; a bad token is a deny, not
// an error.
func (s *AuthService) Authorize(ctx context.Context, accessToken string, perm domain.Permission) (ports.Decision, error) {
	res := s.codec.Verify(accessToken, token.PurposeAccess)
	if res.Status != token.StatusOK {
		metrics.AuthorizeChecksTotal.WithLabelValues("deny").Inc()
		return ports.Decision{Allowed: false}, nil
	}

	role := res.Claims.Role
	if !role.Valid() {
		// A signed token with an unknown role means the table and the issuer
		// disagree; log loudly, deny quietly.
		s.log.Error().Str("role", string(role)).Msg("token carries unknown role")
		metrics.AuthorizeChecksTotal.WithLabelValues("deny").Inc()
		return ports.Decision{Allowed: false}, nil
	}

	allowed := s.perms.HasPermission(role, perm)
	if allowed {
		metrics.AuthorizeChecksTotal.WithLabelValues("allow").Inc()
	} else {
		metrics.AuthorizeChecksTotal.WithLabelValues("deny").Inc()
	}
	return ports.Decision{Allowed: allowed, UserID: res.Claims.UserID, Role: role}, nil
}

// ChangeRole assigns a new role to the target user. The actor must hold the
// assign_roles permission and strictly outrank the role being granted: an
// admin can neither mint another admin nor promote anyone past itself.
func (s *AuthService) ChangeRole(ctx context.Context, actorRole domain.Role, targetUserID string, newRole domain.Role) error {
	if !newRole.Valid() {
		return domain.ErrForbidden
	}
	if !s.perms.HasPermission(actorRole, domain.PermAssignRoles) {
		return domain.ErrForbidden
	}
	if domain.HasHigherOrEqualRole(newRole, actorRole) {
		return domain.ErrForbidden
	}
	if _, err := s.users.FindByID(ctx, targetUserID); err != nil {
		return err
	}
	return s.users.UpdateRole(ctx, targetUserID, newRole)
}

// ListUsers returns all user records for the back office.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// openSession issues both tokens and persists the refresh session.
func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	access, _, err := s.codec.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()

	refresh, err := s.persistRefresh(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// persistRefresh mints a refresh token and stores its session. A duplicate
// token value gets one retry with a fresh token; two collisions in a row
// exceed the entropy budget and bubble up as ErrConflict.
func (s *AuthService) persistRefresh(ctx context.Context, user *domain.User) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		refresh, expiresAt, err := s.codec.IssueRefresh(user.ID, user.Role)
		if err != nil {
			return "", err
		}
		err = s.sessions.CreateSession(ctx, user.ID, refresh, expiresAt)
		if err == nil {
			metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()
			return refresh, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return "", err
		}
		s.log.Warn().Str("user_id", user.ID).Msg("refresh token collision, reminting")
	}
	return "", domain.ErrConflict
}

func (s *AuthService) issueVerification(ctx context.Context, user *domain.User) error {
	tok, err := s.sessions.CreateSingleUseToken(ctx, domain.TokenKindEmailVerification, user.ID, user.Email, s.verifyTTL)
	if err != nil {
		return err
	}
	metrics.SingleUseTokensTotal.WithLabelValues(string(domain.TokenKindEmailVerification), "issued").Inc()
	if s.mailer == nil {
		return nil
	}
	return s.mailer.SendEmailVerification(ctx, user.Email, tok)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
