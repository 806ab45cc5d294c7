package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/techhive/commerce/internal/cart"
	"github.com/techhive/commerce/internal/catalog"
	"github.com/techhive/commerce/internal/customer"
	"github.com/techhive/commerce/internal/models"
	"github.com/techhive/commerce/internal/order"
	"github.com/techhive/commerce/internal/store"
	"github.com/techhive/commerce/internal/users"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	Store *store.Store
	Cart  *CartHandler
	Chk   *CheckoutHandler
	Auth  *AuthHandler
	Prod  *ProductHandler
	Ord   *OrderHandler
}

func newTestEnv(t *testing.T) *testEnv {
	s, err := store.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("products", []models.Product{
		{ID: "P1", Name: "Keyboard", Price: 50, StockQuantity: 10, IsActive: true},
		{ID: "P2", Name: "Mouse", Price: 30, StockQuantity: 5, IsActive: true},
	}))

	cat := &catalog.Catalog{Store: s}
	ledger := &cart.Ledger{Store: s, Catalog: cat}
	orders := &order.Builder{Store: s, Catalog: cat, Cart: ledger}

	return &testEnv{
		T:     t,
		E:     echo.New(),
		Store: s,
		Cart:  &CartHandler{Cart: ledger},
		Chk:   &CheckoutHandler{Orders: orders},
		Auth: &AuthHandler{
			Directory: &customer.Directory{Store: s},
			Users:     &users.Service{Store: s},
			JWTSecret: testSecret,
		},
		Prod: &ProductHandler{Catalog: cat},
		Ord:  &OrderHandler{Orders: orders},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func sessionCookieFor(id string) *http.Cookie {
	return &http.Cookie{Name: sessionCookie, Value: id, Path: "/"}
}

func adminToken(t *testing.T) string {
	claims := jwt.MapClaims{
		"sub":  "USER-001",
		"role": "admin",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}
