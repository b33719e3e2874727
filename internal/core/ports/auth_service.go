package ports

import (
	"context"

	"github.com/motorhaus/storefront-auth/internal/core/domain"
)

// TokenPair bundles the two bearer tokens handed to a client on login or
// refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is the success payload of Login and Refresh.
type AuthResult struct {
	Tokens TokenPair    `json:"tokens"`
	User   *domain.User `json:"user"`
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool        `json:"allowed"`
	UserID  string      `json:"user_id,omitempty"`
	Role    domain.Role `json:"role,omitempty"`
}

// AuthService is the single entry point consumed by route-guarding
// middleware and the auth HTTP handlers. Expected failures come back as the
// domain sentinel errors, never as panics.
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error

	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	RequestEmailVerification(ctx context.Context, email string) error
	ConfirmEmail(ctx context.Context, token string) error

	Authorize(ctx context.Context, accessToken string, perm domain.Permission) (Decision, error)
	ChangeRole(ctx context.Context, actorRole domain.Role, targetUserID string, newRole domain.Role) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
