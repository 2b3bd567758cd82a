package reportsapi

import (
	"net/http"
	"strings"

	"scamwatch.org/internal/audit"
	"scamwatch.org/internal/httpx"
	"scamwatch.org/internal/scam"
)

type publicReportRequest struct {
	ReporterName  string `json:"reporter_name"`
	City          string `json:"city"`
	CPF           string `json:"cpf"`
	ContactMethod string `json:"contact_method"`
	Description   string `json:"description"`
	Contact       string `json:"contact"`
	CompanyName   string `json:"company_name"`
}

// handlePublicReport registers a scam report from an anonymous member of the
// public. Company linkage is optional here: the reporter may not know which
// registered company, if any, the scammer impersonated.
func (a *API) handlePublicReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.MethodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req publicReportRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report := scam.Report{
		ReporterName:  strings.TrimSpace(req.ReporterName),
		City:          strings.TrimSpace(req.City),
		CPF:           strings.TrimSpace(req.CPF),
		ContactMethod: scam.ContactMethod(req.ContactMethod),
		Description:   strings.TrimSpace(req.Description),
		Contact:       strings.TrimSpace(req.Contact),
		CompanyName:   strings.ToUpper(strings.TrimSpace(req.CompanyName)),
	}
	if err := report.Validate(); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.reports.Create(r.Context(), &report); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "scam.public_report_created", map[string]any{
		"report_id": report.ID,
	})
	httpx.WriteJSON(w, http.StatusCreated, report)
}

// handleRanking is the public companies-by-report-count listing.
func (a *API) handleRanking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, r, http.MethodGet)
		return
	}

	ranking, err := a.reports.Ranking(r.Context())
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ranking)
}
