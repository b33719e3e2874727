package config

import (
	"crypto/rand"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/motorhaus/storefront-auth/pkg/logger"
)

const (
	// minProductionSecretLen is the shortest signing secret accepted when
	// running with the production profile.
	minProductionSecretLen = 32
	// generatedSecretLen is the length of secrets synthesized for
	// non-production runs.
	generatedSecretLen = 64
)

const secretAlphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!@#$%^&*()-_=+"

// Secrets holds the resolved signing secrets. Resolve them once at process
// start and treat the value as immutable; nothing outside tests mutates it.
type Secrets struct {
	Access  string
	Refresh string
}

// ResolveSecrets validates the configured signing secrets. In production a
// missing or short secret is fatal. Outside production, missing secrets are
// synthesized from crypto/rand with a warning. Tokens then survive only for
// the lifetime of the process, which is the correct failure mode for a dev
// box and an unacceptable one for production.
func ResolveSecrets(cfg *Config, log zerolog.Logger) (Secrets, error) {
	access, err := resolveSecret("AUTH_ACCESS_SECRET", cfg.Auth.AccessSecret, cfg.Production(), log)
	if err != nil {
		return Secrets{}, err
	}
	refresh, err := resolveSecret("AUTH_REFRESH_SECRET", cfg.Auth.RefreshSecret, cfg.Production(), log)
	if err != nil {
		return Secrets{}, err
	}
	return Secrets{Access: access, Refresh: refresh}, nil
}

func resolveSecret(name, value string, production bool, log zerolog.Logger) (string, error) {
	if production {
		if value == "" {
			return "", configErrorf("%s is required in production", name)
		}
		if len(value) < minProductionSecretLen {
			return "", configErrorf("%s must be at least %d characters in production (got %d)",
				name, minProductionSecretLen, len(value))
		}
		return value, nil
	}

	if value != "" {
		return value, nil
	}

	generated, err := generateSecret(generatedSecretLen)
	if err != nil {
		return "", configErrorf("%s: generate fallback secret: %v", name, err)
	}
	log.Warn().
		Str("secret", name).
		Str("preview", logger.MaskSecret(generated)).
		Msg("signing secret missing, generated an ephemeral one for this process")
	return generated, nil
}

func generateSecret(length int) (string, error) {
	max := big.NewInt(int64(len(secretAlphabet)))
	out := make([]byte, length)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = secretAlphabet[idx.Int64()]
	}
	return string(out), nil
}
