package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey contextKey = "user_id"

	// UserIDHeader carries the caller identity forwarded by the gateway
	UserIDHeader = "X-User-ID"
)

// UserProvider verifies that a user exists for the forwarded identity
type UserProvider interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// IdentityMiddleware resolves the caller identity from the gateway header
type IdentityMiddleware struct {
	userProvider UserProvider
}

// NewIdentityMiddleware creates a new IdentityMiddleware. The user provider
// is optional; when nil, the header is trusted as-is.
func NewIdentityMiddleware(userProvider UserProvider) *IdentityMiddleware {
	return &IdentityMiddleware{userProvider: userProvider}
}

// Authenticate returns an Echo middleware that extracts and validates the
// user identity forwarded by the API gateway
func (m *IdentityMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(UserIDHeader)
			if header == "" {
				return unauthorizedError(c, "missing "+UserIDHeader+" header")
			}

			userID, err := uuid.Parse(header)
			if err != nil || userID == uuid.Nil {
				return unauthorizedError(c, "invalid "+UserIDHeader+" header")
			}

			if m.userProvider != nil {
				exists, err := m.userProvider.UserExists(c.Request().Context(), userID)
				if err != nil {
					log.Error().Err(err).Str("user_id", userID.String()).Msg("User lookup failed")
					return unauthorizedError(c, "identity could not be verified")
				}
				if !exists {
					log.Debug().Str("user_id", userID.String()).Msg("Unknown user identity")
					return unauthorizedError(c, "unknown user")
				}
			}

			ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUserID extracts the authenticated user ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
