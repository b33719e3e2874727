package config

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const EnvProduction = "production"

// ConfigurationError marks a fatal startup misconfiguration (missing or weak
// secrets, malformed duration strings). It aborts process start; it is never
// returned on a request path.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	AccessSecret  string `env:"AUTH_ACCESS_SECRET"`
	RefreshSecret string `env:"AUTH_REFRESH_SECRET"`

	// Lifetimes use the compact duration grammar: <digits><unit> where unit
	// is one of s, m, h, d (e.g. "15m", "7d").
	AccessTTL  string `env:"AUTH_ACCESS_TTL,  default=1h"`
	RefreshTTL string `env:"AUTH_REFRESH_TTL, default=7d"`
	ResetTTL   string `env:"AUTH_RESET_TTL,   default=30m"`
	VerifyTTL  string `env:"AUTH_VERIFY_TTL,  default=24h"`

	// RotateRefresh controls whether Refresh replaces the refresh token and
	// its session record (on by default).
	RotateRefresh bool `env:"AUTH_REFRESH_ROTATE, default=true"`

	LoginMaxAttempts int    `env:"AUTH_LOGIN_MAX_ATTEMPTS, default=10"`
	LoginWindow      string `env:"AUTH_LOGIN_WINDOW,       default=5m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Production reports whether the process runs with the production profile.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// Load reads configuration from environment variables and validates every
// duration string up front. Any failure panics: a process with a malformed
// configuration must not start.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(configErrorf("parse environment: %v", err))
	}
	for name, value := range map[string]string{
		"AUTH_ACCESS_TTL":   cfg.Auth.AccessTTL,
		"AUTH_REFRESH_TTL":  cfg.Auth.RefreshTTL,
		"AUTH_RESET_TTL":    cfg.Auth.ResetTTL,
		"AUTH_VERIFY_TTL":   cfg.Auth.VerifyTTL,
		"AUTH_LOGIN_WINDOW": cfg.Auth.LoginWindow,
	} {
		if _, err := ParseTTL(value); err != nil {
			panic(configErrorf("%s: %v", name, err))
		}
	}
	return &cfg
}

var ttlPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseTTL parses the compact duration grammar: an integer magnitude
// followed by a single unit code (s, m, h, d). Anything else is a
// ConfigurationError. TTLs are validated once at startup, never per
// request.
func ParseTTL(s string) (time.Duration, error) {
	m := ttlPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, configErrorf("duration %q does not match <digits><s|m|h|d>", s)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, configErrorf("duration %q magnitude out of range", s)
	}
	switch m[2] {
	case "s":
		return time.Duration(n) * time.Second, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	default: // "d"
		return time.Duration(n) * 24 * time.Hour, nil
	}
}

// MustTTL is ParseTTL for values already validated by Load.
func MustTTL(s string) time.Duration {
	d, err := ParseTTL(s)
	if err != nil {
		panic(err)
	}
	return d
}
