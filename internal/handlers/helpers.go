package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/techhive/commerce/internal/events"
	"github.com/techhive/commerce/internal/logging"
)

const sessionCookie = "cart_session"

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionID returns the caller's cart session id, issuing a fresh one via
// cookie on first touch.
func sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	c.SetCookie(CreateCookie(sessionCookie, id, "/", time.Now().Add(30*24*time.Hour)))
	return id
}

// publish sends a domain event without ever failing the request.
func publish(c echo.Context, producer *events.Producer, topic, key string, event map[string]any) {
	ctx := c.Request().Context()
	if err := producer.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event publish failed", "topic", topic, "error", err)
	}
}

// actionResponse is the {success, message} shape the cart actions return.
type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ok(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, actionResponse{Success: true, Message: message})
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, actionResponse{Success: false, Message: message})
}
