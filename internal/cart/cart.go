// Package cart implements the per-session cart ledger backed by cart.json,
// a map of session id to lines. One line per product id: adding an existing
// product increments its quantity.
package cart

import (
	"errors"
	"fmt"

	"github.com/techhive/commerce/internal/catalog"
	"github.com/techhive/commerce/internal/models"
	"github.com/techhive/commerce/internal/store"
)

var ErrValidation = errors.New("validation")

type Ledger struct {
	Store   *store.Store
	Catalog *catalog.Catalog
}

func (l *Ledger) load() (map[string][]models.CartLine, error) {
	cart := make(map[string][]models.CartLine)
	if err := l.Store.Load("cart", &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Add appends a line or increments an existing one. Quantities below one
// are coerced to one.
func (l *Ledger) Add(sessionID, productID string, quantity int) error {
	if sessionID == "" {
		return fmt.Errorf("session id required: %w", ErrValidation)
	}
	if productID == "" {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}
	if quantity < 1 {
		quantity = 1
	}

	l.Store.Lock()
	defer l.Store.Unlock()

	cart, err := l.load()
	if err != nil {
		return err
	}
	lines := cart[sessionID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			cart[sessionID] = lines
			return l.Store.Save("cart", cart)
		}
	}
	cart[sessionID] = append(lines, models.CartLine{
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   models.Now(),
	})
	return l.Store.Save("cart", cart)
}

// UpdateQuantity sets the line quantity exactly; zero or negative removes
// the line.
func (l *Ledger) UpdateQuantity(sessionID, productID string, quantity int) error {
	if productID == "" {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}
	if quantity <= 0 {
		return l.Remove(sessionID, productID)
	}

	l.Store.Lock()
	defer l.Store.Unlock()

	cart, err := l.load()
	if err != nil {
		return err
	}
	lines := cart[sessionID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			break
		}
	}
	cart[sessionID] = lines
	return l.Store.Save("cart", cart)
}

// Remove deletes the line. Removing a line that does not exist is a no-op.
func (l *Ledger) Remove(sessionID, productID string) error {
	if productID == "" {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}

	l.Store.Lock()
	defer l.Store.Unlock()

	cart, err := l.load()
	if err != nil {
		return err
	}
	lines := cart[sessionID]
	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	cart[sessionID] = kept
	return l.Store.Save("cart", cart)
}

// Clear drops every line for the session.
func (l *Ledger) Clear(sessionID string) error {
	l.Store.Lock()
	defer l.Store.Unlock()

	cart, err := l.load()
	if err != nil {
		return err
	}
	delete(cart, sessionID)
	return l.Store.Save("cart", cart)
}

// Items joins the session's lines against the live catalog. Lines whose
// product is gone or inactive are skipped, not deleted from the ledger.
func (l *Ledger) Items(sessionID string) ([]models.CartItem, error) {
	cart, err := l.load()
	if err != nil {
		return nil, err
	}
	lines := cart[sessionID]
	if len(lines) == 0 {
		return nil, nil
	}

	products, err := l.Catalog.All()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var items []models.CartItem
	for _, line := range lines {
		p, ok := byID[line.ProductID]
		if !ok || !p.IsActive {
			continue
		}
		items = append(items, models.CartItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			AddedAt:   line.AddedAt,
			Product:   p,
		})
	}
	return items, nil
}

// Total sums price*quantity over the joined items.
func (l *Ledger) Total(sessionID string) (float64, error) {
	items, err := l.Items(sessionID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, it := range items {
		total += it.Product.Price * float64(it.Quantity)
	}
	return total, nil
}

// ItemCount sums quantities over the joined items.
func (l *Ledger) ItemCount(sessionID string) (int, error) {
	items, err := l.Items(sessionID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return count, nil
}
