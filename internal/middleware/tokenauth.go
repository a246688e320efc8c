// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type ctxKey string

const userKey ctxKey = "user"

// Authenticator resolves a bearer session token to a uid. An unknown token
// resolves to the empty uid rather than an error.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// TokenAuth is a middleware that resolves the Authorization bearer token to
// the current user and stores the uid in the request context.
//
// A missing, unknown, or expired token leaves the request anonymous rather
// than rejecting it: most of the surface (creating and viewing clipboards)
// works without identity. Handlers that need ownership check the context
// themselves. Authenticator failures are logged and fall back to anonymous.
func TokenAuth(auth Authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			uid, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Error("session lookup failed, treating request as anonymous", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if uid == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated uid from the request
// context. Returns an empty string for anonymous requests.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// WithUserID returns a context carrying the given uid. Intended for tests
// and internal plumbing.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userKey, uid)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
