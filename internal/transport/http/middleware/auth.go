package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtinfra "github.com/go-push-relay/internal/infrastructure/jwt"
)

type contextKey string

const claimsKey contextKey = "claims"

type tokenVerifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// Auth returns middleware that validates the webhook's Bearer JWT and injects claims into context.
func Auth(verifier tokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			claims, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				LoggerFromContext(r.Context()).Warn("rejected webhook token", "err", err)
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwtinfra.Claims)
	return c, ok
}
