package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scamwatch.org/internal/auth"
)

func testCodec(t *testing.T) *auth.Codec {
	t.Helper()
	codec, err := auth.NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func TestAuthenticateAnonymousPassesThrough(t *testing.T) {
	codec := testCodec(t)

	var sawPrincipal bool
	handler := Authenticate(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawPrincipal = auth.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/rankings", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if sawPrincipal {
		t.Fatal("anonymous request must carry no principal")
	}
}

func TestAuthenticateAttachesPrincipal(t *testing.T) {
	codec := testCodec(t)
	token, err := codec.Issue("acme", auth.RoleTenant, 7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var got auth.Principal
	handler := Authenticate(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.PrincipalFromContext(r.Context())
		if tok, ok := auth.TokenFromContext(r.Context()); !ok || tok != token {
			t.Errorf("raw token not attached")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got.Subject != "ACME" || got.Role != auth.RoleTenant || got.TenantID != 7 {
		t.Fatalf("unexpected principal: %+v", got)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	codec := testCodec(t)
	foreign := testCodecWithSecret(t, "other-secret")
	foreignToken, err := foreign.Issue("acme", auth.RoleTenant, 7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	expiredCodec := testCodec(t)
	expiredCodec.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expiredToken, err := expiredCodec.Issue("acme", auth.RoleTenant, 7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"garbage token", "Bearer not.a.token"},
		{"wrong scheme", "Basic abc123"},
		{"empty bearer", "Bearer   "},
		{"foreign signature", "Bearer " + foreignToken},
		{"expired", "Bearer " + expiredToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := Authenticate(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
			req.Header.Set("Authorization", tc.header)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
			if called {
				t.Fatal("rejected request must not reach the handler")
			}
		})
	}
}

func testCodecWithSecret(t *testing.T, secret string) *auth.Codec {
	t.Helper()
	codec, err := auth.NewCodec(secret)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	handler := RequireRole(auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/companies", nil)
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), auth.Principal{Subject: "ROOT", Role: auth.RoleAdmin}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	handler := RequireRole(auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/companies", nil)
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), auth.Principal{Subject: "ACME", Role: auth.RoleTenant, TenantID: 1}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	if got := rr.Header().Get("WWW-Authenticate"); got == "" {
		t.Fatal("expected WWW-Authenticate header set")
	}
}

func TestRequireRoleRejectsMissingPrincipal(t *testing.T) {
	handler := RequireRole(auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/companies", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if got := rr.Header().Get("WWW-Authenticate"); got == "" {
		t.Fatal("expected WWW-Authenticate header set")
	}
}
