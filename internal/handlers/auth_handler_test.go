package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stg-catalog/catalog-api/internal/auth"
	"github.com/stg-catalog/catalog-api/internal/cart"
	"github.com/stg-catalog/catalog-api/internal/middleware"
	"github.com/stg-catalog/catalog-api/internal/models"
	"github.com/stg-catalog/catalog-api/internal/repository"
	"github.com/stg-catalog/catalog-api/pkg/logger"
)

func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()

	log := logger.New("error")
	svc := auth.NewService(
		repository.NewInMemoryUserRepository(),
		auth.NewInMemorySessionStore(),
		[]byte("test-secret"),
		time.Hour,
		log,
	)
	products := repository.NewInMemoryProductRepository()
	carts := cart.NewManager(repository.NewInMemoryCartRepository(products), log)

	return NewAuthHandler(svc, carts, log)
}

const registerBody = `{"name":"Test User","email":"test@example.com","password":"secret1","confirm_password":"secret1"}`

func TestRegister(t *testing.T) {
	handler := newAuthHandler(t)

	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody)))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var session models.Session
	if err := json.NewDecoder(w.Body).Decode(&session); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if session.Token == "" {
		t.Error("expected a session token")
	}
	if session.Email != "test@example.com" {
		t.Errorf("expected session email test@example.com, got %s", session.Email)
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	handler := newAuthHandler(t)

	body := `{"name":"Test User","email":"not-an-email","password":"secret1","confirm_password":"different"}`
	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Fields["email"] == "" {
		t.Error("expected an email field error")
	}
	if resp.Fields["confirmPassword"] == "" {
		t.Error("expected a confirmPassword field error")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	handler := newAuthHandler(t)

	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody)))
	if w.Code != http.StatusCreated {
		t.Fatalf("first registration failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody)))

	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != "This email is already registered" {
		t.Errorf("unexpected error message: %s", resp["error"])
	}
}

func TestLogin(t *testing.T) {
	handler := newAuthHandler(t)

	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody)))
	if w.Code != http.StatusCreated {
		t.Fatalf("registration failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.Login(w, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"test@example.com","password":"secret1"}`)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var session models.Session
	if err := json.NewDecoder(w.Body).Decode(&session); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if session.Token == "" {
		t.Error("expected a session token")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	handler := newAuthHandler(t)

	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody)))

	w = httptest.NewRecorder()
	handler.Login(w, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"test@example.com","password":"wrong99"}`)))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != "Incorrect email or password" {
		t.Errorf("unexpected error message: %s", resp["error"])
	}
}

func TestLogout(t *testing.T) {
	handler := newAuthHandler(t)

	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody)))

	var session models.Session
	if err := json.NewDecoder(w.Body).Decode(&session); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), &session))

	w = httptest.NewRecorder()
	handler.Logout(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSession(t *testing.T) {
	handler := newAuthHandler(t)

	session := &models.Session{Token: "tok", UserID: "user-1", Name: "Test User", Email: "test@example.com"}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), session))

	w := httptest.NewRecorder()
	handler.Session(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got models.Session
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("expected user_id user-1, got %s", got.UserID)
	}
}
