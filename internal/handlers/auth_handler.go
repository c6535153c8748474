package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stg-catalog/catalog-api/internal/auth"
	"github.com/stg-catalog/catalog-api/internal/cart"
	"github.com/stg-catalog/catalog-api/internal/middleware"
	"github.com/stg-catalog/catalog-api/internal/models"
	"github.com/stg-catalog/catalog-api/internal/repository"
	"github.com/stg-catalog/catalog-api/internal/validation"
)

// authService is the slice of auth.Service the handler needs.
type authService interface {
	SignUp(ctx context.Context, email, password, name string) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, token string) (string, error)
}

// AuthHandler handles register/login/logout/session HTTP requests.
type AuthHandler struct {
	service authService
	carts   *cart.Manager
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service authService, carts *cart.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		carts:   carts,
		logger:  logger,
	}
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	form := validation.New(map[string]string{
		"name":            req.Name,
		"email":           req.Email,
		"password":        req.Password,
		"confirmPassword": req.ConfirmPassword,
	}, map[string]validation.Rule{
		"name":            validation.NameRule(),
		"email":           validation.EmailRule(),
		"password":        validation.PasswordRule(),
		"confirmPassword": validation.ConfirmPasswordRule("password"),
	})

	if !form.Validate() {
		WriteFieldErrors(w, fieldErrors(form), h.logger)
		return
	}

	session, err := h.service.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.logger.Warn("registration failed", "email", req.Email, "error", err)

		status := http.StatusBadRequest
		if errors.Is(err, repository.ErrUserExists) {
			status = http.StatusConflict
		}
		WriteError(w, status, auth.SignUpMessage(err), h.logger)
		return
	}

	WriteJSON(w, http.StatusCreated, session, h.logger)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	form := validation.New(map[string]string{
		"email":    req.Email,
		"password": req.Password,
	}, map[string]validation.Rule{
		"email":    validation.EmailRule(),
		"password": {Required: true},
	})

	if !form.Validate() {
		WriteFieldErrors(w, fieldErrors(form), h.logger)
		return
	}

	session, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login failed", "email", req.Email, "error", err)
		WriteError(w, http.StatusUnauthorized, auth.SignInMessage(err), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, session, h.logger)
}

// Logout handles POST /api/auth/logout. The session's cart store is torn
// down with it; remote cart rows survive for the next login.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	userID, err := h.service.SignOut(r.Context(), session.Token)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Logout failed. Try again", h.logger)
		return
	}

	h.carts.Drop(userID)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed out"}, h.logger)
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, session, h.logger)
}

func fieldErrors(form *validation.Form) map[string]string {
	out := make(map[string]string)
	for name := range form.Values() {
		if field, ok := form.Field(name); ok && field.Error != "" {
			out[name] = field.Error
		}
	}
	return out
}
