package middleware

import (
	"net/http"
	"strings"

	"github.com/devarko/thunderstorm/backend/internal/token"
	"github.com/labstack/echo/v4"
)

// claimsContextKey is the echo context key the resolved identity is bound to.
const claimsContextKey = "claims"

// JWTAuthMiddleware extracts the bearer token, validates it against the token
// service and binds the resolved claims into the request context. Failures
// reject the request with 401 before any handler runs.
func JWTAuthMiddleware(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				if err == token.ErrExpired {
					return echo.NewHTTPError(http.StatusUnauthorized, "Token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFromContext returns the identity bound by JWTAuthMiddleware, or nil
// when the request was not authenticated.
func ClaimsFromContext(c echo.Context) *token.Claims {
	claims, _ := c.Get(claimsContextKey).(*token.Claims)
	return claims
}
