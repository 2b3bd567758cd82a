package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"scamwatch.org/internal/audit"
	"scamwatch.org/internal/auth"
	"scamwatch.org/internal/httpx"
	"scamwatch.org/internal/scam"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string            `json:"token"`
	Login       string            `json:"login"`
	ScamReports []scam.ReportView `json:"scam_reports"`
}

// handleLogin verifies credentials, issues a token and enriches the response
// with the tenant's scam reports. Authentication is hard-fail; the enrichment
// is best-effort and can only shrink to an empty list, never break the login.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.MethodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, c, err := a.svc.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			httpx.WriteError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		httpx.WriteError(w, r, http.StatusInternalServerError, "login failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"login": c.LoginName,
		"role":  string(c.Role),
	})

	reports := a.scams.FetchByTenant(r.Context(), c.ID, token)

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Token:       token,
		Login:       c.LoginName,
		ScamReports: reports,
	})
}

// handleValidate reports whether the presented bearer token is valid. The
// auth interceptor has already rejected undecodable tokens, so reaching the
// handler with a principal means the token checked out.
func (a *API) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, r, http.MethodGet)
		return
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "invalid token")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"subject": principal.Subject,
		"role":    string(principal.Role),
	})
}

// bearerFromContext returns the raw token to forward to the reports service.
func bearerFromContext(r *http.Request) string {
	if token, ok := auth.TokenFromContext(r.Context()); ok {
		return token
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return ""
}
