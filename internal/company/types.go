package company

import (
	"context"
	"errors"
	"strings"
	"time"

	"scamwatch.org/internal/auth"
)

var (
	ErrNotFound     = errors.New("company: not found")
	ErrConflict     = errors.New("company: already exists")
	ErrInvalidInput = errors.New("company: invalid input")
)

// Company is a registered organization that can log in and receive scam
// reports. Admin accounts share the table; they carry the admin role and
// no tax id.
type Company struct {
	ID           int       `json:"id"`
	LoginName    string    `json:"login_name"`
	TaxID        string    `json:"tax_id,omitempty"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	Role         auth.Role `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Update carries mutable company fields for admin edits.
type Update struct {
	LoginName string
	TaxID     string
	Active    bool
	Role      auth.Role
}

// Store is the persistence contract for companies. Login names are unique
// case-insensitively; the store receives them already uppercased.
type Store interface {
	Create(ctx context.Context, c *Company) error
	FindByID(ctx context.Context, id int) (Company, error)
	FindByLogin(ctx context.Context, login string) (Company, error)
	List(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, id int, upd Update) (Company, error)
	SetActive(ctx context.Context, id int, active bool) (Company, error)
	Delete(ctx context.Context, id int) error
}

// NormalizeLogin uppercases and trims a login name. Every lookup and every
// stored row goes through this, so the two services agree on identity.
func NormalizeLogin(login string) string {
	return strings.ToUpper(strings.TrimSpace(login))
}
