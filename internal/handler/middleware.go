package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
	"github.com/jathin-vignesh/goal-tracker/internal/service"
)

const contextKeyUser = "current_user"

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return err
		}
	}
}

// BearerAuth validates the Bearer access token, loads the user it references,
// and injects the user into the echo context. A valid token whose user no
// longer exists is rejected the same as an invalid token.
func BearerAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return domain.ErrUnauthorized
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return domain.ErrUnauthorized
			}

			user, err := auth.CurrentUser(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(contextKeyUser, user)
			return next(c)
		}
	}
}

// CurrentUser extracts the authenticated user from the echo context.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(contextKeyUser).(*domain.User)
	return user, ok
}
