package auth

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stg-catalog/catalog-api/internal/models"
)

// SessionStore persists issued sessions keyed by token. Deleting a token
// revokes it before its JWT expiry.
type SessionStore interface {
	Save(ctx context.Context, token string, session models.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

const sessionKeyPrefix = "session:"

// RedisSessionStore mirrors sessions in Redis with the token's TTL.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a session store over the given Redis address.
func NewRedisSessionStore(addr, password string) *RedisSessionStore {
	return &RedisSessionStore{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
	}
}

// Save stores the session JSON under the token with the given TTL.
func (s *RedisSessionStore) Save(ctx context.Context, token string, session models.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+token, payload, ttl).Err()
}

// Get returns the session for a token, or nil when unknown or expired.
func (s *RedisSessionStore) Get(ctx context.Context, token string) (*models.Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete revokes a token.
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}

// Ping verifies the Redis connection.
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// InMemorySessionStore implements SessionStore in memory, used in tests
// and local development.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	expiry   map[string]time.Time
}

// NewInMemorySessionStore creates an empty in-memory session store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]models.Session),
		expiry:   make(map[string]time.Time),
	}
}

// Save stores the session with its TTL.
func (s *InMemorySessionStore) Save(ctx context.Context, token string, session models.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session
	s.expiry[token] = time.Now().Add(ttl)
	return nil
}

// Get returns the session for a token, or nil when unknown or expired.
func (s *InMemorySessionStore) Get(ctx context.Context, token string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok || time.Now().After(s.expiry[token]) {
		return nil, nil
	}
	return &session, nil
}

// Delete revokes a token.
func (s *InMemorySessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	delete(s.expiry, token)
	return nil
}
