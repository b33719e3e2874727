package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/motorhaus/storefront-auth/internal/core/domain"
	"github.com/motorhaus/storefront-auth/internal/core/ports"
)

// RequirePermission gates a route on a single permission. It re-presents the
// bearer token stored by Auth to the auth service, so the deny/allow
// decision (and its metrics) live in one place.
func RequirePermission(auth ports.AuthService, perm domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get(CtxAccessToken).(string)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			decision, err := auth.Authorize(c.Request().Context(), raw, perm)
			if err != nil {
				return err
			}
			if !decision.Allowed {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
