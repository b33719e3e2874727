package domain

import "time"

// Role is the privilege tier of a user. Roles are totally ordered:
// user < admin < super_admin.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// rolePrecedence ranks roles for privilege comparisons. Higher is stronger.
var rolePrecedence = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Valid reports whether r is one of the known roles. Every permission lookup
// must be gated by this check: an unknown role is a programming error, not
// user input.
func (r Role) Valid() bool {
	_, ok := rolePrecedence[r]
	return ok
}

// Precedence returns the integer rank of the role, or 0 for unknown roles.
func (r Role) Precedence() int {
	return rolePrecedence[r]
}

// HasHigherOrEqualRole reports whether a ranks at or above b.
// Unknown roles rank below everything.
func HasHigherOrEqualRole(a, b Role) bool {
	return a.Precedence() >= b.Precedence()
}

// User models an account in the storefront. Accounts are never hard-deleted;
// deactivation flips Active off.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username,omitempty"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	Active        bool      `json:"active"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
