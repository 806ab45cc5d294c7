package models

import "time"

// TimeLayout is the timestamp format used in every collection file.
const TimeLayout = "2006-01-02 15:04:05"

func Now() string {
	return time.Now().Format(TimeLayout)
}

type Product struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	SKU              string  `json:"sku,omitempty"`
	BrandID          int     `json:"brand_id,omitempty"`
	CategoryID       int     `json:"category_id,omitempty"`
	Price            float64 `json:"price"`
	CostPrice        float64 `json:"cost_price,omitempty"`
	StockQuantity    int     `json:"stock_quantity"`
	MinimumStock     int     `json:"minimum_stock"`
	ShortDescription string  `json:"short_description,omitempty"`
	LongDescription  string  `json:"long_description,omitempty"`
	Image            string  `json:"image,omitempty"`
	IsActive         bool    `json:"is_active"`
	IsFeatured       bool    `json:"is_featured,omitempty"`
	DateAdded        string  `json:"date_added,omitempty"`
	DateModified     string  `json:"date_modified,omitempty"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    int    `json:"parent_id"`
	SortOrder   int    `json:"sort_order"`
	URLSlug     string `json:"url_slug"`
	IsActive    bool   `json:"is_active"`
}

type Brand struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CartLine is one product selection inside a session's cart. The cart
// collection is a map of session id to lines, one line per product id.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	AddedAt   string `json:"added_at"`
}

// CartItem is a CartLine joined with the live product record.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	AddedAt   string  `json:"added_at"`
	Product   Product `json:"product"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// CustomerInfo is the contact block captured at checkout and embedded into
// the order, independent of any customer account.
type CustomerInfo struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

type Customer struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	FirstName      string  `json:"first_name,omitempty"`
	LastName       string  `json:"last_name,omitempty"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone,omitempty"`
	Address        Address `json:"address,omitzero"`
	PasswordHash   string  `json:"password_hash,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
	DateRegistered string  `json:"date_registered,omitempty"`
	LastLogin      string  `json:"last_login,omitempty"`
	IsActive       bool    `json:"is_active"`
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID        string       `json:"id"`
	Customer  CustomerInfo `json:"customer"`
	Items     []CartItem   `json:"items"`
	Subtotal  float64      `json:"subtotal"`
	Tax       float64      `json:"tax"`
	Shipping  float64      `json:"shipping"`
	Total     float64      `json:"total"`
	Status    OrderStatus  `json:"status"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

// User is a staff account. users.json wraps them in {"users": [...]}.
type User struct {
	UserID       string          `json:"user_id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"password_hash"`
	Role         string          `json:"role"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	IsActive     bool            `json:"is_active"`
	CreatedDate  string          `json:"created_date"`
	LastLogin    string          `json:"last_login,omitempty"`
	Permissions  map[string]bool `json:"permissions,omitempty"`
}
