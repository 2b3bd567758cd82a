// Package reportsapi is the HTTP layer of the scam-report service.
package reportsapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"scamwatch.org/internal/auth"
	"scamwatch.org/internal/httpx"
	"scamwatch.org/internal/obs"
	"scamwatch.org/internal/scam"
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

// API is the reports service's HTTP surface.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	codec   *auth.Codec
	reports scam.Store
}

func New(rp ReadyProbe, version string, codec *auth.Codec, reports scam.Store) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		codec:      codec,
		reports:    reports,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	both := httpx.RequireRole(auth.RoleTenant, auth.RoleAdmin)
	a.mux.Handle("/v1/reports", http.HandlerFunc(a.handleReportsCollection))
	a.mux.Handle("/v1/reports/by-tenant/", both(http.HandlerFunc(a.handleReportsByTenant)))
	a.mux.Handle("/v1/reports/by-company/", both(http.HandlerFunc(a.handleReportsByCompany)))
	a.mux.Handle("/v1/reports/", httpx.RequireRole(auth.RoleAdmin)(http.HandlerFunc(a.handleReportResource)))

	a.mux.HandleFunc("/v1/public/reports", a.handlePublicReport)
	a.mux.HandleFunc("/v1/rankings", a.handleRanking)

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
		"service": "scamwatch-reports",
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
