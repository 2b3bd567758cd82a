package company

import (
	"context"
	"errors"
	"testing"

	"scamwatch.org/internal/auth"
)

// memStore is a minimal in-memory Store for service tests.
type memStore struct {
	nextID    int
	companies map[string]Company
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, companies: make(map[string]Company)}
}

func (m *memStore) Create(_ context.Context, c *Company) error {
	if _, ok := m.companies[c.LoginName]; ok {
		return ErrConflict
	}
	c.ID = m.nextID
	m.nextID++
	m.companies[c.LoginName] = *c
	return nil
}

func (m *memStore) FindByID(_ context.Context, id int) (Company, error) {
	for _, c := range m.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return Company{}, ErrNotFound
}

func (m *memStore) FindByLogin(_ context.Context, login string) (Company, error) {
	c, ok := m.companies[login]
	if !ok {
		return Company{}, ErrNotFound
	}
	return c, nil
}

func (m *memStore) List(_ context.Context) ([]Company, error) {
	out := make([]Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, id int, _ Update) (Company, error) {
	return m.FindByID(context.Background(), id)
}

func (m *memStore) SetActive(_ context.Context, id int, active bool) (Company, error) {
	for login, c := range m.companies {
		if c.ID == id {
			c.Active = active
			m.companies[login] = c
			return c, nil
		}
	}
	return Company{}, ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id int) error {
	for login, c := range m.companies {
		if c.ID == id {
			delete(m.companies, login)
			return nil
		}
	}
	return ErrNotFound
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	codec, err := auth.NewCodec("test-secret-test-secret-test-1234")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	store := newMemStore()
	return NewService(store, codec), store
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	svc, store := newTestService(t)

	c, err := svc.Register(context.Background(), "  acme  ", "12345678000190", "Secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if c.LoginName != "ACME" {
		t.Fatalf("login = %q, want ACME", c.LoginName)
	}
	if c.Role != auth.RoleTenant || !c.Active || c.ID == 0 {
		t.Fatalf("unexpected company: %+v", c)
	}
	if c.PasswordHash == "Secret123" || c.PasswordHash == "" {
		t.Fatal("password stored without hashing")
	}

	stored, err := store.FindByLogin(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("FindByLogin: %v", err)
	}
	if err := auth.VerifyPassword(stored.PasswordHash, "Secret123"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	tests := []struct {
		name            string
		login, tax, pwd string
	}{
		{"blank login", " ", "12345678000190", "pw"},
		{"short tax id", "acme", "123", "pw"},
		{"non-digit tax id", "acme", "1234567800019x", "pw"},
		{"blank password", "acme", "12345678000190", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.login, tc.tax, tc.pwd); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRegisterDuplicateLogin(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Register(context.Background(), "acme", "12345678000190", "pw1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "ACME", "12345678000190", "pw2"); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestRegisterAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	c, err := svc.RegisterAdmin(context.Background(), "ops", "Secret123")
	if err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}
	if c.Role != auth.RoleAdmin || c.LoginName != "OPS" {
		t.Fatalf("unexpected admin: %+v", c)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := newTestService(t)
	reg, err := svc.Register(context.Background(), "acme", "12345678000190", "Secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, c, err := svc.Login(context.Background(), "acme", "Secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if c.ID != reg.ID || c.LoginName != "ACME" {
		t.Fatalf("unexpected company: %+v", c)
	}
}

// Unknown login, wrong password and deactivated account all collapse into one
// error so responses cannot be used to probe which accounts exist.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, store := newTestService(t)
	if _, err := svc.Register(context.Background(), "acme", "12345678000190", "Secret123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	inactive, err := svc.Register(context.Background(), "dormant", "99887766000155", "Secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := store.SetActive(context.Background(), inactive.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	tests := []struct {
		name       string
		login, pwd string
	}{
		{"unknown login", "nobody", "Secret123"},
		{"wrong password", "acme", "wrong"},
		{"inactive account", "dormant", "Secret123"},
		{"blank login", "", "Secret123"},
		{"blank password", "acme", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token, _, err := svc.Login(context.Background(), tc.login, tc.pwd)
			if !errors.Is(err, auth.ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
			if token != "" {
				t.Fatal("no token must be issued on failure")
			}
		})
	}
}
