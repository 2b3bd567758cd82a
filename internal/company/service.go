package company

import (
	"context"
	"fmt"
	"strings"

	"scamwatch.org/internal/auth"
)

const taxIDLength = 14

// Service owns registration and credential verification. Admin CRUD goes
// straight to the Store; only flows touching passwords or tokens live here.
type Service struct {
	store Store
	codec *auth.Codec
}

func NewService(store Store, codec *auth.Codec) *Service {
	return &Service{store: store, codec: codec}
}

// Register creates a tenant account from the public registration form.
func (s *Service) Register(ctx context.Context, login, taxID, password string) (Company, error) {
	login = NormalizeLogin(login)
	taxID = strings.TrimSpace(taxID)
	if login == "" {
		return Company{}, fmt.Errorf("%w: login name is required", ErrInvalidInput)
	}
	if len(taxID) != taxIDLength || !allDigits(taxID) {
		return Company{}, fmt.Errorf("%w: tax id must be %d digits", ErrInvalidInput, taxIDLength)
	}
	if password == "" {
		return Company{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Company{}, fmt.Errorf("hash password: %w", err)
	}
	c := Company{
		LoginName:    login,
		TaxID:        taxID,
		PasswordHash: hash,
		Active:       true,
		Role:         auth.RoleTenant,
	}
	if err := s.store.Create(ctx, &c); err != nil {
		return Company{}, err
	}
	return c, nil
}

// RegisterAdmin creates an administrator account. Only reachable behind an
// admin-protected endpoint.
func (s *Service) RegisterAdmin(ctx context.Context, login, password string) (Company, error) {
	login = NormalizeLogin(login)
	if login == "" {
		return Company{}, fmt.Errorf("%w: login name is required", ErrInvalidInput)
	}
	if password == "" {
		return Company{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Company{}, fmt.Errorf("hash password: %w", err)
	}
	c := Company{
		LoginName:    login,
		PasswordHash: hash,
		Active:       true,
		Role:         auth.RoleAdmin,
	}
	if err := s.store.Create(ctx, &c); err != nil {
		return Company{}, err
	}
	return c, nil
}

// Login verifies credentials and issues a signed token. Unknown login,
// inactive account and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, login, password string) (string, Company, error) {
	login = NormalizeLogin(login)
	if login == "" || password == "" {
		return "", Company{}, auth.ErrInvalidCredentials
	}
	c, err := s.store.FindByLogin(ctx, login)
	if err != nil {
		return "", Company{}, auth.ErrInvalidCredentials
	}
	if !c.Active {
		return "", Company{}, auth.ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(c.PasswordHash, password); err != nil {
		return "", Company{}, auth.ErrInvalidCredentials
	}
	token, err := s.codec.Issue(c.LoginName, c.Role, c.ID)
	if err != nil {
		return "", Company{}, fmt.Errorf("issue token: %w", err)
	}
	return token, c, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
