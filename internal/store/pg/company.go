package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"scamwatch.org/internal/auth"
	"scamwatch.org/internal/company"
)

// CompanyStore persists companies in Postgres.
type CompanyStore struct {
	db *sql.DB
}

var _ company.Store = (*CompanyStore)(nil)

func NewCompanyStore(db *sql.DB) *CompanyStore {
	return &CompanyStore{db: db}
}

const companyColumns = `id, login_name, coalesce(tax_id, ''), password_hash, active, role, created_at, updated_at`

func (s *CompanyStore) Create(ctx context.Context, c *company.Company) error {
	var taxID any
	if c.TaxID != "" {
		taxID = c.TaxID
	}
	err := s.db.QueryRowContext(ctx, `
		insert into companies(login_name, tax_id, password_hash, active, role, created_at, updated_at)
		values ($1, $2, $3, $4, $5, now(), now())
		returning id, created_at, updated_at
	`, c.LoginName, taxID, c.PasswordHash, c.Active, string(c.Role)).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return company.ErrConflict
		}
		return err
	}
	return nil
}

func (s *CompanyStore) FindByID(ctx context.Context, id int) (company.Company, error) {
	row := s.db.QueryRowContext(ctx, `select `+companyColumns+` from companies where id = $1`, id)
	return scanCompany(row)
}

func (s *CompanyStore) FindByLogin(ctx context.Context, login string) (company.Company, error) {
	row := s.db.QueryRowContext(ctx, `select `+companyColumns+` from companies where login_name = $1`,
		company.NormalizeLogin(login))
	return scanCompany(row)
}

func (s *CompanyStore) List(ctx context.Context) ([]company.Company, error) {
	rows, err := s.db.QueryContext(ctx, `select `+companyColumns+` from companies order by id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]company.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *CompanyStore) Update(ctx context.Context, id int, upd company.Update) (company.Company, error) {
	var taxID any
	if upd.TaxID != "" {
		taxID = upd.TaxID
	}
	row := s.db.QueryRowContext(ctx, `
		update companies
		set login_name = $1, tax_id = $2, active = $3, role = $4, updated_at = now()
		where id = $5
		returning `+companyColumns+`
	`, company.NormalizeLogin(upd.LoginName), taxID, upd.Active, string(upd.Role), id)
	c, err := scanCompany(row)
	if err != nil {
		if isUniqueViolation(err) {
			return company.Company{}, company.ErrConflict
		}
		return company.Company{}, err
	}
	return c, nil
}

func (s *CompanyStore) SetActive(ctx context.Context, id int, active bool) (company.Company, error) {
	row := s.db.QueryRowContext(ctx, `
		update companies set active = $1, updated_at = now()
		where id = $2
		returning `+companyColumns+`
	`, active, id)
	return scanCompany(row)
}

func (s *CompanyStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `delete from companies where id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return company.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (company.Company, error) {
	var c company.Company
	var role string
	err := row.Scan(&c.ID, &c.LoginName, &c.TaxID, &c.PasswordHash, &c.Active, &role, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return company.Company{}, company.ErrNotFound
	}
	if err != nil {
		return company.Company{}, err
	}
	parsed, err := auth.ParseRole(role)
	if err != nil {
		return company.Company{}, err
	}
	c.Role = parsed
	return c, nil
}

// isUniqueViolation matches the Postgres unique_violation SQLSTATE without
// depending on driver error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
