// Package mail carries the dispatch side of the reset/verification flows.
// The auth core only generates tokens; whatever sends the actual email lives
// behind ports.Mailer. LogMailer is the development stand-in.
package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/motorhaus/storefront-auth/pkg/logger"
)

// LogMailer writes dispatch events to the log instead of sending mail.
// Token values are masked; a developer pulls the real token from the
// single_use_tokens collection when needed.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, recipient, token string) error {
	m.log.Info().
		Str("recipient", recipient).
		Str("token_preview", logger.MaskSecret(token)).
		Msg("password reset mail dispatched")
	return nil
}

func (m *LogMailer) SendEmailVerification(_ context.Context, recipient, token string) error {
	m.log.Info().
		Str("recipient", recipient).
		Str("token_preview", logger.MaskSecret(token)).
		Msg("email verification mail dispatched")
	return nil
}
