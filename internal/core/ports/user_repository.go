package ports

import (
	"context"

	"github.com/motorhaus/storefront-auth/internal/core/domain"
)

// UserRepository is the user-record store consumed by the auth core. The
// registration surface writes records through it; everything else reads.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	MarkEmailVerified(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.User, error)
}
