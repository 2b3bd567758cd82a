package scam

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("scam: report not found")
	ErrInvalidInput = errors.New("scam: invalid input")
)

// ContactMethod is how the scammer reached the victim.
type ContactMethod string

const (
	ContactPhone    ContactMethod = "phone"
	ContactWhatsApp ContactMethod = "whatsapp"
	ContactSMS      ContactMethod = "sms"
	ContactEmail    ContactMethod = "email"
	ContactOther    ContactMethod = "other"
)

// ParseContactMethod validates a submitted contact method.
func ParseContactMethod(raw string) (ContactMethod, error) {
	switch ContactMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case ContactPhone:
		return ContactPhone, nil
	case ContactWhatsApp:
		return ContactWhatsApp, nil
	case ContactSMS:
		return ContactSMS, nil
	case ContactEmail:
		return ContactEmail, nil
	case ContactOther:
		return ContactOther, nil
	}
	return "", fmt.Errorf("%w: unknown contact method %q", ErrInvalidInput, raw)
}

// Report is the reports service's own record shape. CPF is the reporter's
// national id; it stays inside the reports service and its direct consumers
// and must never reach a company-facing response (see ReportView).
type Report struct {
	ID            int           `json:"id"`
	ReporterName  string        `json:"reporter_name"`
	City          string        `json:"city"`
	CPF           string        `json:"cpf"`
	ContactMethod ContactMethod `json:"contact_method"`
	Description   string        `json:"description"`
	Contact       string        `json:"contact"`
	CompanyID     int           `json:"company_id,omitempty"`
	CompanyName   string        `json:"company_name,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Validate checks the fields every submission must carry. Company linkage is
// optional: public reports may name no company at all.
func (r *Report) Validate() error {
	if strings.TrimSpace(r.ReporterName) == "" {
		return fmt.Errorf("%w: reporter name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.City) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.CPF) == "" {
		return fmt.Errorf("%w: cpf is required", ErrInvalidInput)
	}
	if _, err := ParseContactMethod(string(r.ContactMethod)); err != nil {
		return err
	}
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Contact) == "" {
		return fmt.Errorf("%w: contact is required", ErrInvalidInput)
	}
	return nil
}

// RankingEntry is one row of the public companies-by-report-count ranking.
type RankingEntry struct {
	CompanyName string `json:"company_name"`
	Count       int    `json:"count"`
}

// ReportUpdate carries the fields an admin may edit.
type ReportUpdate struct {
	Description string
	CompanyName string
	CompanyID   int
}

// Store is the persistence contract for scam reports.
type Store interface {
	Create(ctx context.Context, r *Report) error
	FindByID(ctx context.Context, id int) (Report, error)
	List(ctx context.Context) ([]Report, error)
	ListByCompanyID(ctx context.Context, companyID int) ([]Report, error)
	ListByCompanyName(ctx context.Context, name string) ([]Report, error)
	Ranking(ctx context.Context) ([]RankingEntry, error)
	Update(ctx context.Context, id int, upd ReportUpdate) (Report, error)
	Delete(ctx context.Context, id int) error
}
