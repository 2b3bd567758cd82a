// Package httpapi is the HTTP layer of the company-identity service.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"scamwatch.org/internal/auth"
	"scamwatch.org/internal/company"
	"scamwatch.org/internal/httpx"
	"scamwatch.org/internal/obs"
	"scamwatch.org/internal/scam/remote"
)

// ReadyProbe reports readiness, pinging the DB when one is configured.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the identity service's HTTP surface.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	codec     *auth.Codec
	companies company.Store
	svc       *company.Service
	scams     *remote.Client
}

func New(rp ReadyProbe, version string, codec *auth.Codec, companies company.Store, svc *company.Service, scams *remote.Client) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		codec:      codec,
		companies:  companies,
		svc:        svc,
		scams:      scams,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/validate", a.handleValidate)

	a.mux.HandleFunc("/v1/companies", a.handleRegister)

	admin := httpx.RequireRole(auth.RoleAdmin)
	a.mux.Handle("/v1/admin/companies", admin(http.HandlerFunc(a.handleAdminCompanies)))
	a.mux.Handle("/v1/admin/companies/", admin(http.HandlerFunc(a.handleAdminCompanyResource)))
	a.mux.Handle("/v1/admin/scam-reports", admin(http.HandlerFunc(a.handleAdminReports)))
	a.mux.Handle("/v1/admin/scam-reports/", admin(http.HandlerFunc(a.handleAdminReportResource)))

	a.mux.Handle("/v1/scam-reports/me", httpx.RequireRole(auth.RoleTenant)(http.HandlerFunc(a.handleMyReports)))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = httpx.Authenticate(a.codec)(h)
	h = httpx.RateLimit(h, 50, 25)
	h = httpx.MaxBodyBytes(h, 1<<20)
	h = httpx.CORS(h)
	h = httpx.SecurityHeaders(h)
	h = httpx.Logging(h)
	h = httpx.RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "scamwatch-identity",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.readyProbe.Check(ctx); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}
