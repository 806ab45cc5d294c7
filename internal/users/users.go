// Package users manages staff accounts in users.json, which wraps the
// records in {"users": [...]} unlike the array-shaped collections.
package users

import (
	"errors"
	"fmt"
	"strings"

	"github.com/techhive/commerce/internal/hash"
	"github.com/techhive/commerce/internal/ids"
	"github.com/techhive/commerce/internal/models"
	"github.com/techhive/commerce/internal/store"
)

var (
	ErrValidation         = errors.New("validation")
	ErrNotFound           = errors.New("user not found")
	ErrDuplicate          = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrInactive           = errors.New("account is deactivated")
)

const minPasswordLen = 8

type usersFile struct {
	Users []models.User `json:"users"`
}

type Service struct {
	Store *store.Store
}

func (s *Service) load() (usersFile, error) {
	var f usersFile
	if err := s.Store.Load("users", &f); err != nil {
		return usersFile{}, err
	}
	return f, nil
}

// Find matches by username or email, exact.
func (s *Service) Find(identifier string) (*models.User, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range f.Users {
		if f.Users[i].Username == identifier || f.Users[i].Email == identifier {
			return &f.Users[i], nil
		}
	}
	return nil, nil
}

// Authenticate verifies a staff login and stamps last_login.
func (s *Service) Authenticate(identifier, password string) (*models.User, error) {
	s.Store.Lock()
	defer s.Store.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range f.Users {
		u := &f.Users[i]
		if u.Username != identifier && u.Email != identifier {
			continue
		}
		if !u.IsActive {
			return nil, ErrInactive
		}
		if !hash.CheckPassword(u.PasswordHash, password) {
			return nil, ErrInvalidCredentials
		}
		u.LastLogin = models.Now()
		if err := s.Store.Save("users", f); err != nil {
			return nil, err
		}
		return u, nil
	}
	return nil, ErrNotFound
}

type NewUser struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (s *Service) Create(n NewUser) (*models.User, error) {
	if strings.TrimSpace(n.Username) == "" || strings.TrimSpace(n.Email) == "" ||
		n.Role == "" || strings.TrimSpace(n.FirstName) == "" || strings.TrimSpace(n.LastName) == "" {
		return nil, fmt.Errorf("all fields are required: %w", ErrValidation)
	}
	if len(n.Password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}

	s.Store.Lock()
	defer s.Store.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, u := range f.Users {
		if u.Username == n.Username || u.Email == n.Email {
			return nil, ErrDuplicate
		}
	}

	passwordHash, err := hash.HashPassword(n.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		UserID:       ids.NewUserID(len(f.Users) + 1),
		Username:     n.Username,
		Email:        n.Email,
		PasswordHash: passwordHash,
		Role:         n.Role,
		FirstName:    n.FirstName,
		LastName:     n.LastName,
		IsActive:     true,
		CreatedDate:  models.Now(),
		Permissions:  RolePermissions(n.Role),
	}
	f.Users = append(f.Users, user)
	if err := s.Store.Save("users", f); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *Service) ChangePassword(userID, current, next string) error {
	if len(next) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}

	s.Store.Lock()
	defer s.Store.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	for i := range f.Users {
		u := &f.Users[i]
		if u.UserID != userID {
			continue
		}
		if !hash.CheckPassword(u.PasswordHash, current) {
			return ErrInvalidCredentials
		}
		newHash, err := hash.HashPassword(next)
		if err != nil {
			return err
		}
		u.PasswordHash = newHash
		return s.Store.Save("users", f)
	}
	return ErrNotFound
}

// RolePermissions maps a dashboard role to its capability set.
func RolePermissions(role string) map[string]bool {
	switch role {
	case "admin":
		return map[string]bool{
			"can_manage_users":          true,
			"can_edit_products":         true,
			"can_process_orders":        true,
			"can_access_admin_panel":    true,
			"can_view_analytics":        true,
			"can_access_all_dashboards": true,
		}
	case "php_developer":
		return map[string]bool{
			"can_manage_api":        true,
			"can_process_json_data": true,
			"can_view_error_logs":   true,
			"can_test_endpoints":    true,
		}
	case "frontend_developer":
		return map[string]bool{
			"can_edit_ui_components": true,
			"can_modify_css":         true,
			"can_edit_javascript":    true,
			"can_preview_pages":      true,
		}
	case "database_manager":
		return map[string]bool{
			"can_edit_products":     true,
			"can_manage_categories": true,
			"can_process_orders":    true,
			"can_validate_data":     true,
			"can_manage_inventory":  true,
		}
	}
	return map[string]bool{}
}
