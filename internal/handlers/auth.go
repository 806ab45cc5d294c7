package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/techhive/commerce/internal/customer"
	"github.com/techhive/commerce/internal/events"
	"github.com/techhive/commerce/internal/logging"
	"github.com/techhive/commerce/internal/middleware/auth"
	"github.com/techhive/commerce/internal/users"
)

const accessTokenTTL = 15 * time.Minute

type AuthHandler struct {
	Directory *customer.Directory
	Users     *users.Service
	JWTSecret []byte
	Producer  *events.Producer
}

func (h *AuthHandler) issueToken(c echo.Context, sub, role string) error {
	exp := time.Now().Add(accessTokenTTL)
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTSecret)
	if err != nil {
		return err
	}
	c.SetCookie(CreateCookie(auth.CookieName, token, "/", exp))
	return nil
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "register")

	var req customer.Registration
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	cust, err := h.Directory.Register(req)
	if err != nil {
		switch {
		case errors.Is(err, customer.ErrDuplicateEmail):
			return fail(c, http.StatusConflict, "An account with this email already exists")
		case errors.Is(err, customer.ErrValidation):
			return fail(c, http.StatusBadRequest, err.Error())
		}
		l.Error("register failed", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	l.Info("customer registered", "customer_id", cust.ID)
	publish(c, h.Producer, events.TopicCustomer, cust.ID, map[string]any{
		"type":        "customer_registered",
		"customer_id": cust.ID,
		"email":       cust.Email,
	})

	cust.PasswordHash = ""
	return c.JSON(http.StatusOK, cust)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	cust, err := h.Directory.Authenticate(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, customer.ErrInactive):
			return fail(c, http.StatusForbidden, "Your account has been deactivated")
		case errors.Is(err, customer.ErrValidation), errors.Is(err, customer.ErrInvalidCredentials):
			return fail(c, http.StatusUnauthorized, "Invalid email or password")
		}
		l.Error("login failed", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	if err := h.issueToken(c, cust.ID, "customer"); err != nil {
		l.Error("token issue failed", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, events.TopicCustomer, cust.ID, map[string]any{
		"type":        "customer_logged_in",
		"customer_id": cust.ID,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"customer_id": cust.ID,
		"name":        cust.FirstName + " " + cust.LastName,
		"email":       cust.Email,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(CreateCookie(auth.CookieName, "", "/", expired))
	return ok(c, "Logged out")
}

// StaffLogin authenticates a dashboard account from users.json. The role
// claim on the issued token is what gates the /admin group.
func (h *AuthHandler) StaffLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "staff.login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	user, err := h.Users.Authenticate(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInactive):
			return fail(c, http.StatusForbidden, "Account is deactivated")
		case errors.Is(err, users.ErrNotFound), errors.Is(err, users.ErrInvalidCredentials):
			return fail(c, http.StatusUnauthorized, "Invalid username or password")
		}
		l.Error("staff login failed", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	if err := h.issueToken(c, user.UserID, user.Role); err != nil {
		l.Error("token issue failed", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user_id":     user.UserID,
		"username":    user.Username,
		"role":        user.Role,
		"permissions": user.Permissions,
	})
}
