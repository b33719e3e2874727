package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/motorhaus/storefront-auth/internal/pkg/token"
)

// Context keys populated by Auth for downstream handlers and guards.
const (
	CtxUserID      = "user_id"
	CtxRole        = "role"
	CtxAccessToken = "access_token"
)

// Auth validates the bearer access token and injects its claims into the
// request context. Every failure mode answers with the same 401; the client
// learns nothing about why the token was rejected.
func Auth(codec *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			raw := strings.TrimSpace(parts[1])
			res := codec.Verify(raw, token.PurposeAccess)
			if res.Status != token.StatusOK {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUserID, res.Claims.UserID)
			c.Set(CtxRole, string(res.Claims.Role))
			c.Set(CtxAccessToken, raw)

			return next(c)
		}
	}
}
