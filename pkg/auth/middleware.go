package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"fstore/pkg/log"
)

// userIDKey is the echo context key holding the authenticated user id.
const userIDKey = "auth_user_id"

const bearerPrefix = "Bearer "

// Middleware returns an echo middleware that resolves the Authorization
// header to an authenticated user id, or fails the request with 401.
func (s *Service) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "missing bearer token",
				})
			}

			userID, err := s.Authenticate(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				log.Debug().Err(err).Str("path", c.Request().URL.Path).Msg("Token rejected")
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid or expired token",
				})
			}

			SetUserID(c, userID)
			return next(c)
		}
	}
}

// SetUserID stores the authenticated user id on the request context. Used
// by Middleware and by handler tests that bypass it.
func SetUserID(c echo.Context, userID int64) {
	c.Set(userIDKey, userID)
}

// UserID returns the authenticated user id stored by Middleware. The second
// return is false on routes the middleware never ran for.
func UserID(c echo.Context) (int64, bool) {
	userID, ok := c.Get(userIDKey).(int64)
	return userID, ok
}
