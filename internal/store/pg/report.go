package pg

import (
	"context"
	"database/sql"
	"errors"

	"scamwatch.org/internal/scam"
)

// ReportStore persists scam reports in Postgres.
type ReportStore struct {
	db *sql.DB
}

var _ scam.Store = (*ReportStore)(nil)

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

const reportColumns = `id, reporter_name, city, cpf, contact_method, description, contact,
	coalesce(company_id, 0), coalesce(company_name, ''), created_at`

func (s *ReportStore) Create(ctx context.Context, r *scam.Report) error {
	var companyID any
	if r.CompanyID > 0 {
		companyID = r.CompanyID
	}
	var companyName any
	if r.CompanyName != "" {
		companyName = r.CompanyName
	}
	return s.db.QueryRowContext(ctx, `
		insert into reports(reporter_name, city, cpf, contact_method, description, contact, company_id, company_name, created_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, now())
		returning id, created_at
	`, r.ReporterName, r.City, r.CPF, string(r.ContactMethod), r.Description, r.Contact, companyID, companyName).
		Scan(&r.ID, &r.CreatedAt)
}

func (s *ReportStore) FindByID(ctx context.Context, id int) (scam.Report, error) {
	row := s.db.QueryRowContext(ctx, `select `+reportColumns+` from reports where id = $1`, id)
	return scanReport(row)
}

func (s *ReportStore) List(ctx context.Context) ([]scam.Report, error) {
	return s.queryReports(ctx, `select `+reportColumns+` from reports order by id`)
}

func (s *ReportStore) ListByCompanyID(ctx context.Context, companyID int) ([]scam.Report, error) {
	return s.queryReports(ctx, `select `+reportColumns+` from reports where company_id = $1 order by id`, companyID)
}

func (s *ReportStore) ListByCompanyName(ctx context.Context, name string) ([]scam.Report, error) {
	return s.queryReports(ctx, `select `+reportColumns+` from reports where upper(company_name) = upper($1) order by id`, name)
}

func (s *ReportStore) Ranking(ctx context.Context) ([]scam.RankingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		select company_name, count(*) as total
		from reports
		where company_name is not null and company_name <> ''
		group by company_name
		order by total desc, company_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]scam.RankingEntry, 0)
	for rows.Next() {
		var entry scam.RankingEntry
		if err := rows.Scan(&entry.CompanyName, &entry.Count); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *ReportStore) Update(ctx context.Context, id int, upd scam.ReportUpdate) (scam.Report, error) {
	var companyID any
	if upd.CompanyID > 0 {
		companyID = upd.CompanyID
	}
	var companyName any
	if upd.CompanyName != "" {
		companyName = upd.CompanyName
	}
	row := s.db.QueryRowContext(ctx, `
		update reports
		set description = $1, company_name = $2, company_id = $3
		where id = $4
		returning `+reportColumns+`
	`, upd.Description, companyName, companyID, id)
	return scanReport(row)
}

func (s *ReportStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `delete from reports where id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return scam.ErrNotFound
	}
	return nil
}

func (s *ReportStore) queryReports(ctx context.Context, query string, args ...any) ([]scam.Report, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]scam.Report, 0)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanReport(row rowScanner) (scam.Report, error) {
	var r scam.Report
	var method string
	err := row.Scan(&r.ID, &r.ReporterName, &r.City, &r.CPF, &method, &r.Description, &r.Contact,
		&r.CompanyID, &r.CompanyName, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return scam.Report{}, scam.ErrNotFound
	}
	if err != nil {
		return scam.Report{}, err
	}
	r.ContactMethod = scam.ContactMethod(method)
	return r, nil
}
