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

type OrderHandler struct {
	Orders   *order.Builder
	Producer *events.Producer
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.orders")

	orders, err := h.Orders.List()
	if err != nil {
		l.Error("orders read failed", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	counts, err := h.Orders.StatusCounts()
	if err != nil {
		l.Error("status counts failed", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"orders":        orders,
		"status_counts": counts,
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.order")

	o, err := h.Orders.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Order not found")
		}
		l.Error("order read failed", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.order.status")

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	id := c.Param("id")
	o, err := h.Orders.UpdateStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidStatus):
			return fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrNotFound):
			return fail(c, http.StatusNotFound, "Order not found")
		}
		l.Error("status update failed", "order_id", id, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	l.Info("order status updated", "order_id", id, "status", o.Status)
	publish(c, h.Producer, events.TopicOrder, id, map[string]any{
		"type":     "order_status_updated",
		"order_id": id,
		"status":   o.Status,
	})
	return c.JSON(http.StatusOK, o)
}
