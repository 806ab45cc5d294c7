package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddToCart(t *testing.T) {
	env := newTestEnv(t)
	ck := sessionCookieFor("sess-1")

	load := map[string]any{"product_id": "P1", "quantity": 2}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load, ck)
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp actionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "Item added to cart", resp.Message)
}

func TestAddToCartMissingProductID(t *testing.T) {
	env := newTestEnv(t)
	ck := sessionCookieFor("sess-1")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"quantity": 2}, ck)
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp actionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
}

func TestGetCartTotals(t *testing.T) {
	env := newTestEnv(t)
	ck := sessionCookieFor("sess-1")

	for _, load := range []map[string]any{
		{"product_id": "P1", "quantity": 2},
		{"product_id": "P2", "quantity": 1},
	} {
		rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load, ck)
		require.NoError(t, env.Cart.AddToCart(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, ck)
	require.NoError(t, env.Cart.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 2)
	require.Equal(t, 3, view.ItemCount)
	require.InDelta(t, 130.0, view.Subtotal, 1e-9)
	require.InDelta(t, 10.4, view.Tax, 1e-9)
	require.Zero(t, view.Shipping)
	require.InDelta(t, 140.4, view.Total, 1e-9)
}

func TestGetCartIssuesSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, env.Cart.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, sessionCookie, cookies[0].Name)
	require.NotEmpty(t, cookies[0].Value)
}

func TestUpdateQuantityToZeroRemoves(t *testing.T) {
	env := newTestEnv(t)
	ck := sessionCookieFor("sess-1")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "P1", "quantity": 2}, ck)
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPatch, "/api/v1/cart", map[string]any{"product_id": "P1", "quantity": 0}, ck)
	require.NoError(t, env.Cart.UpdateQuantity(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, ck)
	require.NoError(t, env.Cart.GetCart(c))

	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Empty(t, view.Items)
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv(t)
	ck := sessionCookieFor("sess-1")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "P1"}, ck)
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodDelete, "/api/v1/cart/P1", nil, ck)
	c.SetParamNames("productID")
	c.SetParamValues("P1")
	require.NoError(t, env.Cart.RemoveFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, ck)
	require.NoError(t, env.Cart.GetCart(c))

	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Empty(t, view.Items)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	ck := sessionCookieFor("sess-1")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "P1"}, ck)
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodDelete, "/api/v1/cart", nil, ck)
	require.NoError(t, env.Cart.ClearCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp actionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "Cart cleared", resp.Message)
}
