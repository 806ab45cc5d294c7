// Package catalog is the product/category/brand repository. The catalog is
// read-mostly: the storefront only reads it, admin CRUD rewrites it whole.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/techhive/commerce/internal/models"
	"github.com/techhive/commerce/internal/store"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

type Catalog struct {
	Store *store.Store
}

// load reads products.json, quarantining records that fail the schema
// (blank id or name, negative price) instead of passing them downstream.
func (c *Catalog) load() ([]models.Product, error) {
	var raw []models.Product
	if err := c.Store.Load("products", &raw); err != nil {
		return nil, err
	}
	products := raw[:0]
	for _, p := range raw {
		if p.ID == "" || p.Name == "" || p.Price < 0 {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// All returns every valid product record, active or not.
func (c *Catalog) All() ([]models.Product, error) {
	return c.load()
}

func (c *Catalog) Get(id string) (*models.Product, error) {
	products, err := c.load()
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

func (c *Catalog) ByCategory(categoryID int) ([]models.Product, error) {
	products, err := c.load()
	if err != nil {
		return nil, err
	}
	var out []models.Product
	for _, p := range products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

// LowStock lists products at or below their minimum stock level.
func (c *Catalog) LowStock() ([]models.Product, error) {
	products, err := c.load()
	if err != nil {
		return nil, err
	}
	var out []models.Product
	for _, p := range products {
		if p.StockQuantity <= p.MinimumStock {
			out = append(out, p)
		}
	}
	return out, nil
}

// Add assigns the next PROD-NNN id and appends the product.
func (c *Catalog) Add(p models.Product) (*models.Product, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("name required: %w", ErrValidation)
	}
	if p.Price < 0 {
		return nil, fmt.Errorf("price must be >= 0: %w", ErrValidation)
	}

	c.Store.Lock()
	defer c.Store.Unlock()

	var products []models.Product
	if err := c.Store.Load("products", &products); err != nil {
		return nil, err
	}
	p.ID = fmt.Sprintf("PROD-%03d", len(products)+1)
	p.DateAdded = models.Now()
	p.DateModified = ""
	products = append(products, p)
	if err := c.Store.Save("products", products); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update is a partial update: only non-nil fields are applied.
type Update struct {
	Name          *string  `json:"name"`
	SKU           *string  `json:"sku"`
	Price         *float64 `json:"price"`
	CostPrice     *float64 `json:"cost_price"`
	StockQuantity *int     `json:"stock_quantity"`
	MinimumStock  *int     `json:"minimum_stock"`
	CategoryID    *int     `json:"category_id"`
	BrandID       *int     `json:"brand_id"`
	Image         *string  `json:"image"`
	IsActive      *bool    `json:"is_active"`
	IsFeatured    *bool    `json:"is_featured"`
}

func (c *Catalog) UpdateProduct(id string, u Update) (*models.Product, error) {
	if u.Price != nil && *u.Price < 0 {
		return nil, fmt.Errorf("price must be >= 0: %w", ErrValidation)
	}

	c.Store.Lock()
	defer c.Store.Unlock()

	var products []models.Product
	if err := c.Store.Load("products", &products); err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID != id {
			continue
		}
		p := &products[i]
		if u.Name != nil {
			p.Name = *u.Name
		}
		if u.SKU != nil {
			p.SKU = *u.SKU
		}
		if u.Price != nil {
			p.Price = *u.Price
		}
		if u.CostPrice != nil {
			p.CostPrice = *u.CostPrice
		}
		if u.StockQuantity != nil {
			p.StockQuantity = *u.StockQuantity
		}
		if u.MinimumStock != nil {
			p.MinimumStock = *u.MinimumStock
		}
		if u.CategoryID != nil {
			p.CategoryID = *u.CategoryID
		}
		if u.BrandID != nil {
			p.BrandID = *u.BrandID
		}
		if u.Image != nil {
			p.Image = *u.Image
		}
		if u.IsActive != nil {
			p.IsActive = *u.IsActive
		}
		if u.IsFeatured != nil {
			p.IsFeatured = *u.IsFeatured
		}
		p.DateModified = models.Now()
		if err := c.Store.Save("products", products); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

func (c *Catalog) Delete(id string) error {
	c.Store.Lock()
	defer c.Store.Unlock()

	var products []models.Product
	if err := c.Store.Load("products", &products); err != nil {
		return err
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return c.Store.Save("products", kept)
}

func (c *Catalog) Categories() ([]models.Category, error) {
	var categories []models.Category
	if err := c.Store.Load("categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Catalog) AddCategory(cat models.Category) (*models.Category, error) {
	if cat.Name == "" {
		return nil, fmt.Errorf("name required: %w", ErrValidation)
	}
	if cat.URLSlug == "" {
		cat.URLSlug = strings.ToLower(strings.ReplaceAll(cat.Name, " ", "-"))
	}

	c.Store.Lock()
	defer c.Store.Unlock()

	var categories []models.Category
	if err := c.Store.Load("categories", &categories); err != nil {
		return nil, err
	}
	cat.ID = len(categories) + 1
	categories = append(categories, cat)
	if err := c.Store.Save("categories", categories); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalog) Brands() ([]models.Brand, error) {
	var brands []models.Brand
	if err := c.Store.Load("brands", &brands); err != nil {
		return nil, err
	}
	return brands, nil
}
