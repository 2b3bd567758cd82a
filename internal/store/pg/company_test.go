package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"scamwatch.org/internal/auth"
	"scamwatch.org/internal/company"
)

func newCompanyMock(t *testing.T) (*CompanyStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCompanyStore(db), mock
}

func companyRows(c company.Company) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "login_name", "coalesce", "password_hash", "active", "role", "created_at", "updated_at",
	}).AddRow(c.ID, c.LoginName, c.TaxID, c.PasswordHash, c.Active, string(c.Role), c.CreatedAt, c.UpdatedAt)
}

func TestCompanyCreate(t *testing.T) {
	store, mock := newCompanyMock(t)
	now := time.Now()

	mock.ExpectQuery(`insert into companies`).
		WithArgs("ACME", "12345678000190", "$2a$hash", true, "tenant").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	c := company.Company{
		LoginName:    "ACME",
		TaxID:        "12345678000190",
		PasswordHash: "$2a$hash",
		Active:       true,
		Role:         auth.RoleTenant,
	}
	if err := store.Create(context.Background(), &c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != 7 {
		t.Fatalf("id = %d, want 7", c.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCompanyCreateNullTaxID(t *testing.T) {
	store, mock := newCompanyMock(t)
	now := time.Now()

	mock.ExpectQuery(`insert into companies`).
		WithArgs("OPS", nil, "$2a$hash", true, "admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

	c := company.Company{LoginName: "OPS", PasswordHash: "$2a$hash", Active: true, Role: auth.RoleAdmin}
	if err := store.Create(context.Background(), &c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCompanyCreateDuplicate(t *testing.T) {
	store, mock := newCompanyMock(t)

	mock.ExpectQuery(`insert into companies`).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint (SQLSTATE 23505)`))

	c := company.Company{LoginName: "ACME", TaxID: "12345678000190", PasswordHash: "h", Active: true, Role: auth.RoleTenant}
	if err := store.Create(context.Background(), &c); !errors.Is(err, company.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestCompanyFindByLogin(t *testing.T) {
	store, mock := newCompanyMock(t)
	want := company.Company{
		ID: 3, LoginName: "ACME", TaxID: "12345678000190",
		PasswordHash: "h", Active: true, Role: auth.RoleTenant,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	mock.ExpectQuery(`select .+ from companies where login_name`).
		WithArgs("ACME").
		WillReturnRows(companyRows(want))

	got, err := store.FindByLogin(context.Background(), "acme")
	if err != nil {
		t.Fatalf("FindByLogin: %v", err)
	}
	if got.ID != want.ID || got.LoginName != want.LoginName || got.Role != want.Role {
		t.Fatalf("got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCompanyFindByIDNotFound(t *testing.T) {
	store, mock := newCompanyMock(t)

	mock.ExpectQuery(`select .+ from companies where id`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "login_name", "coalesce", "password_hash", "active", "role", "created_at", "updated_at",
		}))

	if _, err := store.FindByID(context.Background(), 99); !errors.Is(err, company.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCompanySetActive(t *testing.T) {
	store, mock := newCompanyMock(t)
	want := company.Company{
		ID: 3, LoginName: "ACME", PasswordHash: "h", Active: false, Role: auth.RoleTenant,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	mock.ExpectQuery(`update companies set active`).
		WithArgs(false, 3).
		WillReturnRows(companyRows(want))

	got, err := store.SetActive(context.Background(), 3, false)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if got.Active {
		t.Fatal("expected inactive company")
	}
}

func TestCompanyDelete(t *testing.T) {
	store, mock := newCompanyMock(t)

	mock.ExpectExec(`delete from companies`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := store.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	mock.ExpectExec(`delete from companies`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := store.Delete(context.Background(), 99); !errors.Is(err, company.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCompanyList(t *testing.T) {
	store, mock := newCompanyMock(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "login_name", "coalesce", "password_hash", "active", "role", "created_at", "updated_at",
	}).
		AddRow(1, "ACME", "12345678000190", "h", true, "tenant", now, now).
		AddRow(2, "OPS", "", "h", true, "admin", now, now)

	mock.ExpectQuery(`select .+ from companies order by id`).WillReturnRows(rows)

	list, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Role != auth.RoleTenant || list[1].Role != auth.RoleAdmin {
		t.Fatalf("unexpected list: %+v", list)
	}
}
