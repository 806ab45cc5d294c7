// Package order builds and manages orders. An order embeds snapshots of the
// customer contact block and of every product at the time of checkout, so
// later catalog or account edits never change it.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/techhive/commerce/internal/cart"
	"github.com/techhive/commerce/internal/catalog"
	"github.com/techhive/commerce/internal/ids"
	"github.com/techhive/commerce/internal/logging"
	"github.com/techhive/commerce/internal/models"
	"github.com/techhive/commerce/internal/pricing"
	"github.com/techhive/commerce/internal/store"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingFields   = errors.New("name, email and phone are required")
	ErrNoValidProducts = errors.New("no valid products found in cart")
	ErrNotFound        = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid order status")
)

type Builder struct {
	Store   *store.Store
	Catalog *catalog.Catalog
	Cart    *cart.Ledger
}

// SnapshotLine is one line of a client-held cart snapshot. Price and name
// are never trusted from the client; the live catalog is authoritative.
type SnapshotLine struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price,omitempty"`
	Name     string  `json:"name,omitempty"`
}

// Create resolves a cart snapshot against the live catalog and appends the
// resulting order. Lines referencing unknown products are dropped; the
// order fails only when nothing survives. A guest customer record is
// appended per order, with no duplicate-email check (every order captures a
// fresh profile; registration is the only deduplicated path).
func (b *Builder) Create(ctx context.Context, snapshot []SnapshotLine, customer models.CustomerInfo) (*models.Order, error) {
	if len(snapshot) == 0 {
		return nil, ErrEmptyCart
	}
	if strings.TrimSpace(customer.Name) == "" || strings.TrimSpace(customer.Email) == "" ||
		strings.TrimSpace(customer.Phone) == "" {
		return nil, ErrMissingFields
	}

	products, err := b.Catalog.All()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var items []models.CartItem
	var subtotal float64
	for _, line := range snapshot {
		p, ok := byID[line.ID]
		if !ok {
			continue
		}
		subtotal += p.Price * float64(line.Quantity)
		items = append(items, models.CartItem{
			ProductID: line.ID,
			Quantity:  line.Quantity,
			AddedAt:   models.Now(),
			Product:   p,
		})
	}
	if len(items) == 0 {
		return nil, ErrNoValidProducts
	}

	return b.save(ctx, items, subtotal, customer)
}

// CheckoutSession builds an order from the session's cart ledger and clears
// the cart on success.
func (b *Builder) CheckoutSession(ctx context.Context, sessionID string, customer models.CustomerInfo) (*models.Order, error) {
	items, err := b.Cart.Items(sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if strings.TrimSpace(customer.Name) == "" || strings.TrimSpace(customer.Email) == "" ||
		strings.TrimSpace(customer.Phone) == "" {
		return nil, ErrMissingFields
	}

	var subtotal float64
	for _, it := range items {
		subtotal += it.Product.Price * float64(it.Quantity)
	}

	o, err := b.save(ctx, items, subtotal, customer)
	if err != nil {
		return nil, err
	}
	if err := b.Cart.Clear(sessionID); err != nil {
		logging.FromContext(ctx).Warn("cart clear after checkout failed",
			"session_id", sessionID, "order_id", o.ID, "error", err)
	}
	return o, nil
}

// save appends the order, then the guest customer record. A failed customer
// append is logged and does not undo the order.
func (b *Builder) save(ctx context.Context, items []models.CartItem, subtotal float64, customer models.CustomerInfo) (*models.Order, error) {
	totals := pricing.Calculate(subtotal)
	now := models.Now()
	o := models.Order{
		ID:        ids.NewOrderID(),
		Customer:  customer,
		Items:     items,
		Subtotal:  totals.Subtotal,
		Tax:       totals.Tax,
		Shipping:  totals.Shipping,
		Total:     totals.Total,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	b.Store.Lock()
	defer b.Store.Unlock()

	var orders []models.Order
	if err := b.Store.Load("orders", &orders); err != nil {
		return nil, err
	}
	orders = append(orders, o)
	if err := b.Store.Save("orders", orders); err != nil {
		return nil, err
	}

	var customers []models.Customer
	err := b.Store.Load("customers", &customers)
	if err == nil {
		customers = append(customers, models.Customer{
			ID:        uuid.NewString(),
			Name:      customer.Name,
			Email:     customer.Email,
			Phone:     customer.Phone,
			Address:   customer.Address,
			CreatedAt: now,
			IsActive:  true,
		})
		err = b.Store.Save("customers", customers)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("customer append after order failed",
			"order_id", o.ID, "error", err)
	}

	return &o, nil
}

func (b *Builder) Get(id string) (*models.Order, error) {
	var orders []models.Order
	if err := b.Store.Load("orders", &orders); err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
}

func (b *Builder) List() ([]models.Order, error) {
	var orders []models.Order
	if err := b.Store.Load("orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the status and updated_at. Statuses outside the enum
// are rejected.
func (b *Builder) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	b.Store.Lock()
	defer b.Store.Unlock()

	var orders []models.Order
	if err := b.Store.Load("orders", &orders); err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		orders[i].Status = status
		orders[i].UpdatedAt = models.Now()
		if err := b.Store.Save("orders", orders); err != nil {
			return nil, err
		}
		return &orders[i], nil
	}
	return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// StatusCounts feeds the admin dashboard summary.
func (b *Builder) StatusCounts() (map[models.OrderStatus]int, error) {
	orders, err := b.List()
	if err != nil {
		return nil, err
	}
	counts := map[models.OrderStatus]int{
		models.StatusPending:    0,
		models.StatusProcessing: 0,
		models.StatusShipped:    0,
		models.StatusDelivered:  0,
		models.StatusCancelled:  0,
	}
	for _, o := range orders {
		status := o.Status
		if status == "" {
			status = models.StatusPending
		}
		if _, ok := counts[status]; ok {
			counts[status]++
		}
	}
	return counts, nil
}
