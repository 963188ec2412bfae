// Package bearer provides the consumer-side plumbing any service needs
// to authenticate requests with tokens issued by the credential core:
// Authorization-header parsing and a middleware that validates tokens
// against the process-local revocation snapshot.
package bearer

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/informesapp/go-auth-core/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaims stores the validated token claims
const ContextKeyClaims ContextKey = "claims"

// FromHeader extracts the bearer token from an Authorization header
// value. It returns "" when the header is absent or not a bearer scheme.
func FromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// FromRequest extracts the bearer token from a request, preferring the
// Authorization header and falling back to the token query parameter.
func FromRequest(r *http.Request) string {
	if t := FromHeader(r.Header.Get("Authorization")); t != "" {
		return t
	}
	return r.URL.Query().Get("token")
}

// ClaimsFromContext returns the claims injected by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims, ok
}

// RequireAuth validates the bearer access token on every request and
// injects the claims into the request context. Every failure is the
// same generic 401 to the caller; the specific reason only reaches the
// log.
func RequireAuth(validator *token.Validator, log zerolog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw := FromHeader(r.Header.Get("Authorization"))
			if raw == "" {
				unauthenticated(w)
				return
			}

			claims, err := validator.Validate(r.Context(), raw, token.KindAccess)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("bearer auth rejected")
				unauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail":"unauthenticated"}`))
}
