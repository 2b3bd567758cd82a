package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"scamwatch.org/internal/audit"
	"scamwatch.org/internal/auth"
	"scamwatch.org/internal/company"
	"scamwatch.org/internal/httpx"
)

type registerRequest struct {
	Login    string `json:"login"`
	TaxID    string `json:"tax_id"`
	Password string `json:"password"`
}

type registerAdminRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type companyUpdateRequest struct {
	Login  string `json:"login"`
	TaxID  string `json:"tax_id"`
	Active bool   `json:"active"`
	Role   string `json:"role"`
}

// handleRegister is the public tenant registration endpoint.
func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.MethodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req registerRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, err := a.svc.Register(r.Context(), req.Login, req.TaxID, req.Password)
	if err != nil {
		handleCompanyError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "company.registered", map[string]any{
		"company_id": c.ID,
		"login":      c.LoginName,
	})

	w.Header().Set("Location", "/v1/admin/companies/"+strconv.Itoa(c.ID))
	httpx.WriteJSON(w, http.StatusCreated, c)
}

// handleAdminCompanies serves the admin collection: listing and creating
// administrator accounts.
func (a *API) handleAdminCompanies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := a.companies.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var req registerAdminRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		c, err := a.svc.RegisterAdmin(r.Context(), req.Login, req.Password)
		if err != nil {
			handleCompanyError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "company.admin_registered", map[string]any{
			"company_id": c.ID,
			"login":      c.LoginName,
		})
		httpx.WriteJSON(w, http.StatusCreated, c)
	default:
		httpx.MethodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleAdminCompanyResource serves one company: get, update, deactivate,
// delete.
func (a *API) handleAdminCompanyResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/admin/companies/")
	deactivate := false
	if strings.HasSuffix(path, "/deactivate") {
		deactivate = true
		path = strings.TrimSuffix(path, "/deactivate")
	}
	id, err := strconv.Atoi(strings.TrimSuffix(path, "/"))
	if err != nil || id <= 0 {
		httpx.WriteError(w, r, http.StatusNotFound, "company not found")
		return
	}

	if deactivate {
		if r.Method != http.MethodPut {
			httpx.MethodNotAllowed(w, r, http.MethodPut)
			return
		}
		c, err := a.companies.SetActive(r.Context(), id, false)
		if err != nil {
			handleCompanyError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "company.deactivated", map[string]any{"company_id": id})
		httpx.WriteJSON(w, http.StatusOK, c)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := a.companies.FindByID(r.Context(), id)
		if err != nil {
			handleCompanyError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, c)
	case http.MethodPut:
		var req companyUpdateRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		role, err := auth.ParseRole(req.Role)
		if err != nil {
			httpx.WriteError(w, r, http.StatusBadRequest, "unknown role")
			return
		}
		c, err := a.companies.Update(r.Context(), id, company.Update{
			LoginName: req.Login,
			TaxID:     req.TaxID,
			Active:    req.Active,
			Role:      role,
		})
		if err != nil {
			handleCompanyError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "company.updated", map[string]any{"company_id": id})
		httpx.WriteJSON(w, http.StatusOK, c)
	case http.MethodDelete:
		if err := a.companies.Delete(r.Context(), id); err != nil {
			handleCompanyError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "company.deleted", map[string]any{"company_id": id})
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true})
	default:
		httpx.MethodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func handleCompanyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, company.ErrInvalidInput):
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, company.ErrConflict):
		httpx.WriteError(w, r, http.StatusConflict, "login name already registered")
	case errors.Is(err, company.ErrNotFound):
		httpx.WriteError(w, r, http.StatusNotFound, "company not found")
	default:
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal error")
	}
}
