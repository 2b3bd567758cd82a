package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"scamwatch.org/internal/audit"
	"scamwatch.org/internal/auth"
	"scamwatch.org/internal/httpx"
	"scamwatch.org/internal/scam"
)

// handleMyReports returns the authenticated tenant's scam reports. The fetch
// is best-effort enrichment: a degraded reports service yields an empty list,
// not an error.
func (a *API) handleMyReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, r, http.MethodGet)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	reports := a.scams.FetchByTenant(r.Context(), principal.TenantID, bearerFromContext(r))
	httpx.WriteJSON(w, http.StatusOK, reports)
}

// handleAdminReports proxies the full report listing from the reports
// service. Unlike enrichment this is the primary operation, so failures
// surface to the caller.
func (a *API) handleAdminReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, r, http.MethodGet)
		return
	}

	reports, err := a.scams.ListAll(r.Context(), bearerFromContext(r))
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadGateway, "reports service unavailable")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reports)
}

// handleAdminReportResource deletes one report on the reports service.
func (a *API) handleAdminReportResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		httpx.MethodNotAllowed(w, r, http.MethodDelete)
		return
	}

	idRaw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/admin/scam-reports/"), "/")
	id, err := strconv.Atoi(idRaw)
	if err != nil || id <= 0 {
		httpx.WriteError(w, r, http.StatusNotFound, "report not found")
		return
	}

	if err := a.scams.Delete(r.Context(), id, bearerFromContext(r)); err != nil {
		if errors.Is(err, scam.ErrNotFound) {
			httpx.WriteError(w, r, http.StatusNotFound, "report not found")
			return
		}
		httpx.WriteError(w, r, http.StatusBadGateway, "reports service unavailable")
		return
	}

	_ = audit.LogEvent(r.Context(), "scam.report_deleted", map[string]any{"report_id": id})
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
