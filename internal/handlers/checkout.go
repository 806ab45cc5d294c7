package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/techhive/commerce/internal/events"
	"github.com/techhive/commerce/internal/logging"
	"github.com/techhive/commerce/internal/models"
	"github.com/techhive/commerce/internal/order"
)

type CheckoutHandler struct {
	Orders   *order.Builder
	Producer *events.Producer
}

type checkoutResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	OrderID string        `json:"order_id,omitempty"`
	Order   *models.Order `json:"order,omitempty"`
}

func checkoutError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrMissingFields),
		errors.Is(err, order.ErrNoValidProducts):
		return c.JSON(http.StatusBadRequest, checkoutResponse{Success: false, Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, checkoutResponse{Success: false, Message: "internal error"})
	}
}

// Checkout creates an order from a client-held cart snapshot. No server
// cart state is touched.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	var req struct {
		CartSnapshot []order.SnapshotLine `json:"cart_snapshot"`
		Customer     models.CustomerInfo  `json:"customer"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, checkoutResponse{Success: false, Message: "invalid body"})
	}

	o, err := h.Orders.Create(ctx, req.CartSnapshot, req.Customer)
	if err != nil {
		l.Warn("checkout rejected", "error", err)
		return checkoutError(c, err)
	}

	l.Info("order created", "order_id", o.ID, "total", o.Total)
	publish(c, h.Producer, events.TopicOrder, o.ID, map[string]any{
		"type":     "order_created",
		"order_id": o.ID,
		"email":    o.Customer.Email,
		"total":    o.Total,
	})
	return c.JSON(http.StatusOK, checkoutResponse{Success: true, OrderID: o.ID, Order: o})
}

// CheckoutSession creates an order from the session's cart ledger and
// clears it.
func (h *CheckoutHandler) CheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.session")

	var req struct {
		Customer models.CustomerInfo `json:"customer"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, checkoutResponse{Success: false, Message: "invalid body"})
	}

	sid := sessionID(c)
	o, err := h.Orders.CheckoutSession(ctx, sid, req.Customer)
	if err != nil {
		l.Warn("session checkout rejected", "session_id", sid, "error", err)
		return checkoutError(c, err)
	}

	l.Info("order created", "order_id", o.ID, "total", o.Total)
	publish(c, h.Producer, events.TopicOrder, o.ID, map[string]any{
		"type":       "order_created",
		"order_id":   o.ID,
		"session_id": sid,
		"total":      o.Total,
	})
	return c.JSON(http.StatusOK, checkoutResponse{Success: true, OrderID: o.ID, Order: o})
}
