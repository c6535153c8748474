package auth

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stg-catalog/catalog-api/internal/models"
	"github.com/stg-catalog/catalog-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors carry provider-style messages; the handler layer maps
// them to user-facing strings via SignInMessage/SignUpMessage.
var (
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	ErrWeakPassword       = errors.New("Password should be at least 6 characters")
	ErrInvalidEmail       = errors.New("Invalid email address")
	ErrMissingName        = errors.New("Name is required")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Claims are the JWT claims embedded in access tokens.
type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Service implements email+password authentication: bcrypt hashes in the
// users collection, HS256 access tokens, and a session store mirror so
// logout revokes tokens before their JWT expiry.
type Service struct {
	users    repository.UserRepository
	sessions SessionStore
	secret   []byte
	tokenTTL time.Duration
	log      *slog.Logger
}

// NewService creates an auth service.
func NewService(users repository.UserRepository, sessions SessionStore, secret []byte, tokenTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// SignUp registers a new account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, ErrMissingName
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID, "email", user.Email)
	return s.createSession(ctx, user)
}

// SignIn authenticates an existing account with email and password.
// Unknown emails and wrong passwords fail identically.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.log.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	return s.createSession(ctx, *user)
}

// GetSession resolves a bearer token to its session. The session store is
// authoritative for revocation: a valid JWT whose session was deleted is
// rejected. When the store itself is unreachable the claims are trusted
// for the token's remaining lifetime.
func (s *Service) GetSession(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		s.log.Warn("session store unavailable, trusting token claims", "error", err)
		return &models.Session{
			Token:     token,
			UserID:    claims.UserID,
			Name:      claims.Name,
			Email:     claims.Email,
			ExpiresAt: claims.ExpiresAt.Time,
		}, nil
	}
	if session == nil {
		return nil, ErrInvalidToken
	}
	return session, nil
}

// SignOut revokes the token and returns the user it belonged to.
func (s *Service) SignOut(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		s.log.Error("failed to revoke session", "user_id", claims.UserID, "error", err)
		return "", err
	}

	s.log.Info("user signed out", "user_id", claims.UserID)
	return claims.UserID, nil
}

func (s *Service) createSession(ctx context.Context, user models.User) (*models.Session, error) {
	expiresAt := time.Now().Add(s.tokenTTL)
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	session := models.Session{
		Token:     token,
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}

	if err := s.sessions.Save(ctx, token, session, s.tokenTTL); err != nil {
		s.log.Error("failed to store session", "user_id", user.ID, "error", err)
		return nil, err
	}

	return &session, nil
}

func (s *Service) parseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
