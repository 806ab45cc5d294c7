// Package customer is the customer account directory over customers.json.
// The directory is append-only apart from the last_login write-back.
package customer

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/techhive/commerce/internal/hash"
	"github.com/techhive/commerce/internal/ids"
	"github.com/techhive/commerce/internal/models"
	"github.com/techhive/commerce/internal/store"
)

var (
	ErrValidation         = errors.New("validation")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactive           = errors.New("account deactivated")
)

const minPasswordLen = 6

type Directory struct {
	Store *store.Store
}

func (d *Directory) load() ([]models.Customer, error) {
	var customers []models.Customer
	if err := d.Store.Load("customers", &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// FindByEmail matches case-insensitively. Returns nil when no account
// exists for that email.
func (d *Directory) FindByEmail(email string) (*models.Customer, error) {
	customers, err := d.load()
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if strings.EqualFold(customers[i].Email, email) {
			return &customers[i], nil
		}
	}
	return nil, nil
}

type Registration struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (d *Directory) Register(r Registration) (*models.Customer, error) {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" ||
		strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return nil, fmt.Errorf("please fill in all required fields: %w", ErrValidation)
	}
	if r.Password != r.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match: %w", ErrValidation)
	}
	if len(r.Password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return nil, fmt.Errorf("invalid email address: %w", ErrValidation)
	}

	d.Store.Lock()
	defer d.Store.Unlock()

	customers, err := d.load()
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		if strings.EqualFold(c.Email, r.Email) {
			return nil, ErrDuplicateEmail
		}
	}

	passwordHash, err := hash.HashPassword(r.Password)
	if err != nil {
		return nil, err
	}
	customer := models.Customer{
		ID:             ids.NewCustomerID(),
		FirstName:      strings.TrimSpace(r.FirstName),
		LastName:       strings.TrimSpace(r.LastName),
		Email:          strings.TrimSpace(r.Email),
		Phone:          strings.TrimSpace(r.Phone),
		PasswordHash:   passwordHash,
		DateRegistered: models.Now(),
		IsActive:       true,
	}
	customers = append(customers, customer)
	if err := d.Store.Save("customers", customers); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Authenticate verifies the password, rejects inactive accounts, and stamps
// last_login on success.
func (d *Directory) Authenticate(email, password string) (*models.Customer, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	d.Store.Lock()
	defer d.Store.Unlock()

	customers, err := d.load()
	if err != nil {
		return nil, err
	}
	for i := range customers {
		c := &customers[i]
		if !strings.EqualFold(c.Email, email) {
			continue
		}
		if c.PasswordHash == "" || !hash.CheckPassword(c.PasswordHash, password) {
			return nil, ErrInvalidCredentials
		}
		if !c.IsActive {
			return nil, ErrInactive
		}
		c.LastLogin = models.Now()
		if err := d.Store.Save("customers", customers); err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, ErrInvalidCredentials
}
