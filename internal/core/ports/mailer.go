package ports

import "context"

// Mailer delivers reset and verification links. The auth core only generates
// tokens; formatting and transport belong to the implementation.
type Mailer interface {
	SendPasswordReset(ctx context.Context, recipient, token string) error
	SendEmailVerification(ctx context.Context, recipient, token string) error
}
