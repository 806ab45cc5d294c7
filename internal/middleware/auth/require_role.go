// Package auth holds the access-token cookie check used to gate route
// groups. Anything richer (per-permission policies, dashboards) lives
// outside this service.
package auth

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const CookieName = "accessToken"

// Parse validates the access-token cookie and returns the subject id and
// role claim.
func Parse(c echo.Context, secret []byte) (string, string, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}
	if cookie.Value == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}
	return sub, role, nil
}

// RequireRole authenticates the cookie and checks the role claim against
// the allowed set. The subject id and role are stored on the echo context
// as "user_id" and "role".
func RequireRole(secret []byte, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sub, role, err := Parse(c, secret)
			if err != nil {
				return err
			}
			if len(roles) > 0 && !slices.Contains(roles, role) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			c.Set("user_id", sub)
			c.Set("role", role)
			return next(c)
		}
	}
}
