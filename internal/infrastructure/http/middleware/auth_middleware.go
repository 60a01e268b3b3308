package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/pkg/jwt"
)

const claimsKey = "claims"

// TokenValidator parses bearer tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware authenticates requests from their bearer token
type AuthMiddleware struct {
	tokens TokenValidator
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects requests without a token (401) or with a bad one (403)
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := ExtractToken(c)
		if token == "" {
			return errors.ErrUnauthenticated()
		}

		claims, err := m.tokens.ValidateAccessToken(token)
		if err != nil {
			return errors.ErrInvalidToken()
		}

		c.Set(claimsKey, claims)
		return next(c)
	}
}

// OptionalAuth attaches the caller when a valid token is present.
// A missing or bad token leaves the request anonymous.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := ExtractToken(c); token != "" {
			if claims, err := m.tokens.ValidateAccessToken(token); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		return next(c)
	}
}

// ClaimsFrom returns the authenticated caller, if any
func ClaimsFrom(c echo.Context) (*jwt.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*jwt.Claims)
	return claims, ok && claims != nil
}

// ExtractToken reads "Authorization: Bearer <token>"
func ExtractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
