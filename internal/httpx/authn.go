package httpx

import (
	"errors"
	"net/http"
	"strings"

	"scamwatch.org/internal/auth"
)

const (
	authHeader   = "Authorization"
	bearerScheme = "Bearer "
)

// Authenticate is the per-request auth interceptor. A request without a
// bearer credential proceeds anonymously; the role guard on the endpoint
// decides whether that is acceptable. A request that does present a token
// must decode cleanly, otherwise it is rejected here: partial or ambiguous
// tokens never fall through to anonymous.
func Authenticate(codec *auth.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := strings.TrimSpace(r.Header.Get(authHeader))
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := extractBearerToken(header)
			if err != nil {
				WriteError(w, r, http.StatusUnauthorized, err.Error())
				return
			}

			principal, err := codec.Decode(token)
			if err != nil {
				WriteError(w, r, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			ctx = auth.ContextWithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards a handler with the access decision point. A missing
// principal is an authentication failure (401); a valid principal with the
// wrong role is an authorization failure (403). The two are never conflated.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			err := auth.Authorize(roles, principal, ok)
			switch {
			case errors.Is(err, auth.ErrInvalidCredentials):
				w.Header().Set("WWW-Authenticate", `Bearer realm="scamwatch"`)
				WriteError(w, r, http.StatusUnauthorized, "authentication required")
			case errors.Is(err, auth.ErrForbidden):
				w.Header().Set("WWW-Authenticate", `Bearer realm="scamwatch", error="insufficient_scope"`)
				WriteError(w, r, http.StatusForbidden, "insufficient role")
			case err != nil:
				WriteError(w, r, http.StatusInternalServerError, "authorization error")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func extractBearerToken(header string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerScheme)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
