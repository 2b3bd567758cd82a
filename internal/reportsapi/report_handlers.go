package reportsapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"scamwatch.org/internal/audit"
	"scamwatch.org/internal/auth"
	"scamwatch.org/internal/httpx"
	"scamwatch.org/internal/scam"
)

type reportRequest struct {
	ReporterName  string `json:"reporter_name"`
	City          string `json:"city"`
	CPF           string `json:"cpf"`
	ContactMethod string `json:"contact_method"`
	Description   string `json:"description"`
	Contact       string `json:"contact"`
	CompanyName   string `json:"company_name"`
}

type reportUpdateRequest struct {
	Description string `json:"description"`
	CompanyName string `json:"company_name"`
	CompanyID   int    `json:"company_id"`
}

// handleReportsCollection: POST is tenant-only registration, GET is the
// admin-only full listing. The roles differ per method, so the decision
// point runs here rather than around the route.
func (a *API) handleReportsCollection(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())

	switch r.Method {
	case http.MethodPost:
		if !a.authorize(w, r, []auth.Role{auth.RoleTenant}, principal, ok) {
			return
		}
		a.createReport(w, r, principal)
	case http.MethodGet:
		if !a.authorize(w, r, []auth.Role{auth.RoleAdmin}, principal, ok) {
			return
		}
		list, err := a.reports.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, list)
	default:
		httpx.MethodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// createReport registers a report on behalf of the authenticated tenant.
// The tenant id comes from the token, never from the body: a tenant cannot
// file reports under another tenant's id.
func (a *API) createReport(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	var req reportRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "company name is required")
		return
	}

	report := scam.Report{
		ReporterName:  strings.TrimSpace(req.ReporterName),
		City:          strings.TrimSpace(req.City),
		CPF:           strings.TrimSpace(req.CPF),
		ContactMethod: scam.ContactMethod(req.ContactMethod),
		Description:   strings.TrimSpace(req.Description),
		Contact:       strings.TrimSpace(req.Contact),
		CompanyID:     principal.TenantID,
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

	_ = audit.LogEvent(r.Context(), "scam.report_created", map[string]any{
		"report_id": report.ID,
		"tenant_id": principal.TenantID,
	})
	httpx.WriteJSON(w, http.StatusCreated, report)
}

// handleReportsByTenant serves the canonical per-tenant lookup consumed by
// the identity service. A tenant may only read its own reports; admins may
// read any tenant's.
func (a *API) handleReportsByTenant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, r, http.MethodGet)
		return
	}

	idRaw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/reports/by-tenant/"), "/")
	id, err := strconv.Atoi(idRaw)
	if err != nil || id <= 0 {
		httpx.WriteError(w, r, http.StatusNotFound, "tenant not found")
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	if principal.Role == auth.RoleTenant && principal.TenantID != id {
		httpx.WriteError(w, r, http.StatusForbidden, "insufficient role")
		return
	}

	list, err := a.reports.ListByCompanyID(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

// handleReportsByCompany is the legacy display-name lookup.
//
// Deprecated: display names are not unique, so two tenants sharing one will
// see each other's reports. Kept only until external callers move to the
// by-tenant path; never used inside this module.
func (a *API) handleReportsByCompany(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, r, http.MethodGet)
		return
	}

	raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/reports/by-company/"), "/")
	name, err := url.PathUnescape(raw)
	if err != nil || strings.TrimSpace(name) == "" {
		httpx.WriteError(w, r, http.StatusNotFound, "company not found")
		return
	}

	list, err := a.reports.ListByCompanyName(r.Context(), strings.TrimSpace(name))
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Deprecation", "true")
	w.Header().Set("Link", `</v1/reports/by-tenant/{id}>; rel="successor-version"`)
	httpx.WriteJSON(w, http.StatusOK, list)
}

// handleReportResource updates or deletes one report (admin only; the role
// guard wraps the route).
func (a *API) handleReportResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/reports/"), "/")
	if strings.Contains(path, "/") {
		httpx.WriteError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id, err := strconv.Atoi(path)
	if err != nil || id <= 0 {
		httpx.WriteError(w, r, http.StatusNotFound, "report not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req reportUpdateRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Description) == "" {
			httpx.WriteError(w, r, http.StatusBadRequest, "description is required")
			return
		}
		report, err := a.reports.Update(r.Context(), id, scam.ReportUpdate{
			Description: strings.TrimSpace(req.Description),
			CompanyName: strings.ToUpper(strings.TrimSpace(req.CompanyName)),
			CompanyID:   req.CompanyID,
		})
		if err != nil {
			handleReportError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "scam.report_updated", map[string]any{"report_id": id})
		httpx.WriteJSON(w, http.StatusOK, report)
	case http.MethodDelete:
		if err := a.reports.Delete(r.Context(), id); err != nil {
			handleReportError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "scam.report_deleted", map[string]any{"report_id": id})
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true})
	default:
		httpx.MethodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

// authorize runs the access decision point and writes the response on deny.
func (a *API) authorize(w http.ResponseWriter, r *http.Request, required []auth.Role, principal auth.Principal, ok bool) bool {
	err := auth.Authorize(required, principal, ok)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", `Bearer realm="scamwatch"`)
		httpx.WriteError(w, r, http.StatusUnauthorized, "authentication required")
		return false
	case errors.Is(err, auth.ErrForbidden):
		httpx.WriteError(w, r, http.StatusForbidden, "insufficient role")
		return false
	case err != nil:
		httpx.WriteError(w, r, http.StatusInternalServerError, "authorization error")
		return false
	}
	return true
}

func handleReportError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scam.ErrInvalidInput):
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, scam.ErrNotFound):
		httpx.WriteError(w, r, http.StatusNotFound, "report not found")
	default:
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal error")
	}
}
