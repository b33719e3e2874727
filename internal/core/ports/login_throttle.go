package ports

import "context"

// LoginThrottle rate-limits login attempts per account. Implementations are
// expected to fail open: a throttle backend outage must not lock everyone
// out.
type LoginThrottle interface {
	// Allow records an attempt for the key and reports whether it is still
	// under the limit.
	Allow(ctx context.Context, key string) (bool, error)

	// Clear resets the counter after a successful login.
	Clear(ctx context.Context, key string) error
}
