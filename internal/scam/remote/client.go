// Package remote is the identity service's client for the reports service.
//
// Fetches exist to enrich responses that are already successful, so this
// client never fails its caller: every failure mode is classified, logged
// and collapsed into an empty result. A degraded reports service must not
// turn a successful login into a failed one.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"scamwatch.org/internal/obs"
	"scamwatch.org/internal/scam"
)

const defaultTimeout = 5 * time.Second

// Failure categories attached to warn logs and metrics.
const (
	categoryConnection = "connection"
	categoryHTTPClient = "http-client"
	categoryHTTPServer = "http-server"
	categoryUnexpected = "unexpected"
)

// Client talks to the reports service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds the whole exchange. A hung reports service must not
// stall the login path; the exact value is a deployment parameter.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New builds a client for the reports service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchByTenant returns the privacy-filtered reports for a tenant id.
// It never returns an error; any failure yields an empty slice. A zero
// tenant id is a no-op guard, not an error: no network call is made.
func (c *Client) FetchByTenant(ctx context.Context, tenantID int, bearer string) []scam.ReportView {
	if tenantID <= 0 {
		obs.Warn("tenant id missing, skipping scam report fetch", nil)
		return []scam.ReportView{}
	}
	key := strconv.Itoa(tenantID)
	reports, failure := c.fetchReports(ctx, "/v1/reports/by-tenant/"+key, bearer)
	return c.collapse(key, reports, failure)
}

// FetchByCompanyName returns privacy-filtered reports matched by display
// name.
//
// Deprecated: display names are not stable keys and collide when two tenants
// share one. Kept only for compatibility with older callers; use
// FetchByTenant.
func (c *Client) FetchByCompanyName(ctx context.Context, name string, bearer string) []scam.ReportView {
	if name == "" {
		obs.Warn("company name missing, skipping scam report fetch", nil)
		return []scam.ReportView{}
	}
	reports, failure := c.fetchReports(ctx, "/v1/reports/by-company/"+url.PathEscape(name), bearer)
	return c.collapse(name, reports, failure)
}

// collapse is the client's outer boundary: the typed failure is logged and
// counted here, then discarded for good.
func (c *Client) collapse(tenantKey string, reports []scam.Report, failure *fetchFailure) []scam.ReportView {
	if failure != nil {
		fields := map[string]any{
			"tenant":   tenantKey,
			"category": failure.category,
		}
		if failure.status != 0 {
			fields["status"] = failure.status
		}
		if failure.errClass != "" {
			fields["error_class"] = failure.errClass
		}
		if failure.err != nil {
			fields["error"] = failure.err.Error()
		}
		obs.Warn("scam report fetch failed", fields)
		obs.ObserveEnrichment(failure.category)
		return []scam.ReportView{}
	}
	views := scam.ToViews(reports)
	obs.Info("scam reports retrieved", map[string]any{
		"tenant": tenantKey,
		"count":  len(views),
	})
	obs.ObserveEnrichment("ok")
	return views
}

// fetchFailure is the internal typed result of a failed fetch. It exists so
// the category stays observable to logs, metrics and tests before the outer
// boundary collapses it into an empty list.
type fetchFailure struct {
	category string
	status   int
	errClass string
	err      error
}

func (c *Client) fetchReports(ctx context.Context, path, bearer string) ([]scam.Report, *fetchFailure) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &fetchFailure{category: categoryUnexpected, errClass: errClass(err), err: err}
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts, refused connections and cancelled parents all land here:
		// the exchange never completed.
		return nil, &fetchFailure{category: categoryConnection, err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, &fetchFailure{category: categoryHTTPServer, status: resp.StatusCode}
	case resp.StatusCode >= 400:
		return nil, &fetchFailure{category: categoryHTTPClient, status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &fetchFailure{category: categoryUnexpected, errClass: errClass(err), err: err}
	}
	if len(body) == 0 {
		return []scam.Report{}, nil
	}
	var reports []scam.Report
	if err := json.Unmarshal(body, &reports); err != nil {
		return nil, &fetchFailure{category: categoryUnexpected, errClass: errClass(err), err: err}
	}
	if reports == nil {
		return []scam.Report{}, nil
	}
	return reports, nil
}

// errClass names the concrete error type for diagnostics.
func errClass(err error) string {
	if err == nil {
		return ""
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return "json.SyntaxError"
	case errors.As(err, &typeErr):
		return "json.UnmarshalTypeError"
	default:
		return fmt.Sprintf("%T", err)
	}
}
