package scam

import "time"

// ReportView is the outward shape of a report. It has no CPF field at all,
// so no serialization path can leak the reporter's national id. Privacy is
// enforced by the type, not by blanking a value.
type ReportView struct {
	ID            int           `json:"id"`
	ReporterName  string        `json:"reporter_name"`
	City          string        `json:"city"`
	ContactMethod ContactMethod `json:"contact_method"`
	Description   string        `json:"description"`
	Contact       string        `json:"contact"`
	CompanyID     int           `json:"company_id,omitempty"`
	CompanyName   string        `json:"company_name,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ToView projects a raw report onto the outward shape, dropping the CPF.
func ToView(r Report) ReportView {
	return ReportView{
		ID:            r.ID,
		ReporterName:  r.ReporterName,
		City:          r.City,
		ContactMethod: r.ContactMethod,
		Description:   r.Description,
		Contact:       r.Contact,
		CompanyID:     r.CompanyID,
		CompanyName:   r.CompanyName,
		CreatedAt:     r.CreatedAt,
	}
}

// ToViews projects a slice of reports. Always returns a non-nil slice so
// JSON encodes an empty array rather than null.
func ToViews(reports []Report) []ReportView {
	views := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, ToView(r))
	}
	return views
}
