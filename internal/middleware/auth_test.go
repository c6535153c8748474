package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stg-catalog/catalog-api/internal/models"
)

// stubResolver accepts a single known token.
type stubResolver struct {
	token   string
	session models.Session
}

func (s *stubResolver) GetSession(ctx context.Context, token string) (*models.Session, error) {
	if token == s.token {
		sess := s.session
		return &sess, nil
	}
	return nil, errors.New("invalid or expired token")
}

func TestAuthenticate(t *testing.T) {
	resolver := &stubResolver{
		token:   "good-token",
		session: models.Session{Token: "good-token", UserID: "user-1", Email: "u@example.com"},
	}

	// Test handler echoes the session user it sees.
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFrom(r.Context())
		if !ok {
			t.Error("session missing from context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(session.UserID))
	})

	authHandler := Authenticate(resolver)(testHandler)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{
			name:           "valid bearer token",
			header:         "Bearer good-token",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			header:         "Basic abc123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bearer with no token",
			header:         "Bearer ",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown token",
			header:         "Bearer bad-token",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			authHandler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			if tt.expectedStatus == http.StatusOK {
				if w.Body.String() != "user-1" {
					t.Errorf("body = %s, want user-1", w.Body.String())
				}
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2) // 1/s with burst of 2

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("burst requests blocked: %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", statuses[2])
	}

	// A different IP has its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("fresh IP = %d, want 200", w.Code)
	}
}
