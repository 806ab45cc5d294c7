package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/techhive/commerce/internal/middleware/auth"
	"github.com/techhive/commerce/internal/models"
)

func validCheckoutBody() map[string]any {
	return map[string]any{
		"cart_snapshot": []map[string]any{
			{"id": "P1", "quantity": 2},
			{"id": "P2", "quantity": 1},
		},
		"customer": map[string]any{
			"name":  "Ana Reyes",
			"email": "ana@example.com",
			"phone": "555-0101",
			"address": map[string]any{
				"street": "1 Main St", "city": "Quezon City", "state": "NCR",
				"zip": "1100", "country": "PH",
			},
		},
	}
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", validCheckoutBody())
	require.NoError(t, env.Chk.Checkout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[A-Z0-9]{6}$`), resp.OrderID)
	require.InDelta(t, 140.4, resp.Order.Total, 1e-9)
	require.Equal(t, models.StatusPending, resp.Order.Status)
}

func TestCheckoutEmptySnapshot(t *testing.T) {
	env := newTestEnv(t)

	body := validCheckoutBody()
	body["cart_snapshot"] = []map[string]any{}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", body)
	require.NoError(t, env.Chk.Checkout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "cart is empty", resp.Message)
}

func TestCheckoutUnknownProductsOnly(t *testing.T) {
	env := newTestEnv(t)

	body := validCheckoutBody()
	body["cart_snapshot"] = []map[string]any{{"id": "GONE", "quantity": 1}}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", body)
	require.NoError(t, env.Chk.Checkout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "no valid products found in cart", resp.Message)
}

func TestCheckoutSessionFlow(t *testing.T) {
	env := newTestEnv(t)
	ck := sessionCookieFor("sess-1")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "P2", "quantity": 1}, ck)
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := map[string]any{"customer": validCheckoutBody()["customer"]}
	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/cart/checkout", body, ck)
	require.NoError(t, env.Chk.CheckoutSession(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.InDelta(t, 42.4, resp.Order.Total, 1e-9)

	// Cart is cleared by the session checkout.
	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, ck)
	require.NoError(t, env.Cart.GetCart(c))
	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Empty(t, view.Items)
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", validCheckoutBody())
	require.NoError(t, env.Chk.Checkout(c))
	var created checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec, c = env.doJSONRequest(http.MethodPatch, "/api/v1/admin/orders/x/status", map[string]any{"status": "shipped"})
	c.SetParamNames("id")
	c.SetParamValues(created.OrderID)
	require.NoError(t, env.Ord.UpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var o models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	require.Equal(t, models.StatusShipped, o.Status)
}

func TestUpdateOrderStatusRejectsUnknown(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/orders/x/status", map[string]any{"status": "teleported"})
	c.SetParamNames("id")
	c.SetParamValues("ORD-00000000-XXXXXX")
	require.NoError(t, env.Ord.UpdateStatus(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterAndLoginHandlers(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{
		"first_name":       "Ana",
		"last_name":        "Reyes",
		"email":            "ana@example.com",
		"phone":            "555-0101",
		"password":         "secret123",
		"confirm_password": "secret123",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", body)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "password_hash")

	// Duplicate registration conflicts.
	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/register", body)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]any{
		"email": "ana@example.com", "password": "secret123",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var hasToken bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.CookieName && cookie.Value != "" {
			hasToken = true
		}
	}
	require.True(t, hasToken)
}

func TestRequireRole(t *testing.T) {
	env := newTestEnv(t)
	handler := auth.RequireRole(testSecret, "admin")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// No cookie.
	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	err := handler(c)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)

	// Valid admin token.
	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/orders", nil,
		&http.Cookie{Name: auth.CookieName, Value: adminToken(t), Path: "/"})
	require.NoError(t, handler(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "USER-001", c.Get("user_id"))
}
