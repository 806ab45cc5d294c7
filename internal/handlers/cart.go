package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/techhive/commerce/internal/cart"
	"github.com/techhive/commerce/internal/events"
	"github.com/techhive/commerce/internal/logging"
	"github.com/techhive/commerce/internal/models"
	"github.com/techhive/commerce/internal/pricing"
)

type CartHandler struct {
	Cart     *cart.Ledger
	Producer *events.Producer
}

type cartView struct {
	Items     []models.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  float64           `json:"subtotal"`
	Tax       float64           `json:"tax"`
	Shipping  float64           `json:"shipping"`
	Total     float64           `json:"total"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	sid := sessionID(c)
	items, err := h.Cart.Items(sid)
	if err != nil {
		l.Error("cart read failed", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	view := cartView{Items: items}
	if view.Items == nil {
		view.Items = []models.CartItem{}
	}
	var subtotal float64
	for _, it := range items {
		subtotal += it.Product.Price * float64(it.Quantity)
		view.ItemCount += it.Quantity
	}
	totals := pricing.Calculate(subtotal)
	view.Subtotal = totals.Subtotal
	view.Tax = totals.Tax
	view.Shipping = totals.Shipping
	view.Total = totals.Total

	return c.JSON(http.StatusOK, view)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" {
		return fail(c, http.StatusBadRequest, "Product ID is required")
	}

	sid := sessionID(c)
	if err := h.Cart.Add(sid, req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrValidation) {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		l.Error("cart add failed", "product_id", req.ProductID, "error", err)
		return fail(c, http.StatusInternalServerError, "Failed to add item to cart")
	}

	publish(c, h.Producer, events.TopicCart, sid, map[string]any{
		"type":       "cart_item_added",
		"session_id": sid,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})
	return ok(c, "Item added to cart")
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart")

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" {
		return fail(c, http.StatusBadRequest, "Product ID is required")
	}

	sid := sessionID(c)
	if err := h.Cart.UpdateQuantity(sid, req.ProductID, req.Quantity); err != nil {
		l.Error("cart update failed", "product_id", req.ProductID, "error", err)
		return fail(c, http.StatusInternalServerError, "Failed to update quantity")
	}

	publish(c, h.Producer, events.TopicCart, sid, map[string]any{
		"type":       "cart_quantity_updated",
		"session_id": sid,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})
	return ok(c, "Quantity updated")
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.cart")

	productID := c.Param("productID")
	if productID == "" {
		return fail(c, http.StatusBadRequest, "Product ID is required")
	}

	sid := sessionID(c)
	if err := h.Cart.Remove(sid, productID); err != nil {
		l.Error("cart remove failed", "product_id", productID, "error", err)
		return fail(c, http.StatusInternalServerError, "Failed to remove item from cart")
	}

	publish(c, h.Producer, events.TopicCart, sid, map[string]any{
		"type":       "cart_item_removed",
		"session_id": sid,
		"product_id": productID,
	})
	return ok(c, "Item removed from cart")
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear.cart")

	sid := sessionID(c)
	if err := h.Cart.Clear(sid); err != nil {
		l.Error("cart clear failed", "error", err)
		return fail(c, http.StatusInternalServerError, "Failed to clear cart")
	}

	publish(c, h.Producer, events.TopicCart, sid, map[string]any{
		"type":       "cart_cleared",
		"session_id": sid,
	})
	return ok(c, "Cart cleared")
}
