package cart

import (
	"log/slog"
	"sync"

	"github.com/stg-catalog/catalog-api/internal/repository"
)

// Manager hands out one Store per authenticated user and tears it down on
// logout, tying cart state to the session lifecycle instead of ambient
// singletons.
type Manager struct {
	repo repository.CartRepository
	log  *slog.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

// NewManager creates a store manager over the given repository.
func NewManager(repo repository.CartRepository, log *slog.Logger) *Manager {
	return &Manager{
		repo:   repo,
		log:    log,
		stores: make(map[string]*Store),
	}
}

// Get returns the user's store, creating it on first use.
func (m *Manager) Get(userID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[userID]; ok {
		return store
	}
	store := NewStore(userID, m.repo, m.log)
	m.stores[userID] = store
	return store
}

// Drop discards the user's store. Called on logout; remote cart rows are
// untouched.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, userID)
}
