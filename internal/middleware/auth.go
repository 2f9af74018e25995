package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/phase2/todo-api/internal/auth"
)

// ContextKey is a custom type to avoid context key collisions
type ContextKey string

// IdentityKey stores the verified caller in the request context
const IdentityKey ContextKey = "identity"

// AuthMiddleware requires a valid bearer token and puts the verified identity
// into the request context. Missing header, malformed header, and failed
// verification all produce the same 401.
func AuthMiddleware(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}

			identity, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the caller stored by AuthMiddleware
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*auth.Identity)
	return identity, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail":"Invalid or expired authentication token"}`))
}
