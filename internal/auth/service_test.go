package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stg-catalog/catalog-api/internal/repository"
	"github.com/stg-catalog/catalog-api/pkg/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(
		repository.NewInMemoryUserRepository(),
		NewInMemorySessionStore(),
		[]byte("test-secret"),
		15*time.Minute,
		logger.New("error"),
	)
}

func TestService_SignUpValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		wantErr  error
	}{
		{
			name:     "missing name",
			email:    "a@b.co",
			password: "secret1",
			userName: "  ",
			wantErr:  ErrMissingName,
		},
		{
			name:     "malformed email",
			email:    "not-an-email",
			password: "secret1",
			userName: "Ana",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "short password",
			email:    "a@b.co",
			password: "12345",
			userName: "Ana",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "valid registration",
			email:    "ana@example.com",
			password: "secret1",
			userName: "Ana",
			wantErr:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.SignUp(ctx, tt.email, tt.password, tt.userName)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("SignUp() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SignUp() error = %v", err)
			}
			if session.Token == "" || session.UserID == "" {
				t.Errorf("SignUp() session incomplete: %+v", session)
			}
		})
	}
}

func TestService_SignUpDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "dup@example.com", "secret1", "First"); err != nil {
		t.Fatalf("first SignUp() error = %v", err)
	}

	_, err := svc.SignUp(ctx, "dup@example.com", "secret1", "Second")
	if !errors.Is(err, repository.ErrUserExists) {
		t.Errorf("duplicate SignUp() error = %v, want ErrUserExists", err)
	}
}

func TestService_SignInRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "maria@example.com", "secret1", "Maria"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	session, err := svc.SignIn(ctx, "Maria@Example.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if session.Email != "maria@example.com" {
		t.Errorf("Email = %s, want normalized lowercase", session.Email)
	}

	// The issued token resolves back to the same session.
	resolved, err := svc.GetSession(ctx, session.Token)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if resolved.UserID != session.UserID {
		t.Errorf("GetSession().UserID = %s, want %s", resolved.UserID, session.UserID)
	}
}

func TestService_SignInWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "x@example.com", "secret1", "X"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if _, err := svc.SignIn(ctx, "x@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	// Unknown email fails identically.
	if _, err := svc.SignIn(ctx, "ghost@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_SignOutRevokesToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, "out@example.com", "secret1", "Out")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	userID, err := svc.SignOut(ctx, session.Token)
	if err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if userID != session.UserID {
		t.Errorf("SignOut() userID = %s, want %s", userID, session.UserID)
	}

	// The JWT is still within its lifetime but the session is revoked.
	if _, err := svc.GetSession(ctx, session.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("GetSession() after SignOut error = %v, want ErrInvalidToken", err)
	}
}

func TestService_GetSessionGarbageToken(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.GetSession(context.Background(), "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("GetSession() error = %v, want ErrInvalidToken", err)
	}
}
