package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/stg-catalog/catalog-api/internal/models"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionResolver resolves a bearer token to its session.
type SessionResolver interface {
	GetSession(ctx context.Context, token string) (*models.Session, error)
}

// Authenticate validates the Authorization bearer token and stores the
// resolved session in the request context.
func Authenticate(resolver SessionResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "Unauthorized: invalid token format", http.StatusUnauthorized)
				return
			}

			session, err := resolver.GetSession(r.Context(), token)
			if err != nil {
				http.Error(w, "Unauthorized: invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFrom returns the authenticated session stored by Authenticate.
func SessionFrom(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*models.Session)
	return session, ok
}
