package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/stg-catalog/catalog-api/internal/models"
	"github.com/stg-catalog/catalog-api/internal/pricing"
	"github.com/stg-catalog/catalog-api/internal/repository"
)

var (
	ErrNotAuthenticated = errors.New("no authenticated user for cart operation")
)

// Store owns the session's view of one user's cart, synchronized against
// the cart_items collection. Every mutation round-trips through the
// repository and then re-fetches the full snapshot: read-after-write
// re-sync instead of optimistic local patching, trading latency for
// consistency. A failed remote call leaves the snapshot at its last
// known-good state.
type Store struct {
	userID string
	repo   repository.CartRepository
	log    *slog.Logger

	mu     sync.RWMutex
	lines  []models.CartLine
	loaded bool
}

// NewStore creates a cart store for the given user. An empty userID
// yields an inert store whose mutations fail with ErrNotAuthenticated.
func NewStore(userID string, repo repository.CartRepository, log *slog.Logger) *Store {
	return &Store{
		userID: userID,
		repo:   repo,
		log:    log,
	}
}

// Add upserts a line item for the product. Quantities below one are
// treated as one, mirroring the storefront's "add to cart" default.
func (s *Store) Add(ctx context.Context, productID string, quantity int) error {
	if s.userID == "" {
		return ErrNotAuthenticated
	}
	if quantity < 1 {
		quantity = 1
	}

	if err := s.repo.Upsert(ctx, s.userID, productID, quantity); err != nil {
		s.log.Error("failed to add product to cart", "user_id", s.userID, "product_id", productID, "error", err)
		return err
	}

	return s.Refresh(ctx)
}

// Remove deletes a line item by its identifier. Removing an absent item
// is a no-op at the collection level.
func (s *Store) Remove(ctx context.Context, itemID string) error {
	if s.userID == "" {
		return ErrNotAuthenticated
	}

	if err := s.repo.Delete(ctx, s.userID, itemID); err != nil {
		s.log.Error("failed to remove cart item", "user_id", s.userID, "item_id", itemID, "error", err)
		return err
	}

	return s.Refresh(ctx)
}

// SetQuantity overwrites a line item's quantity. Values below one are
// rejected as a no-op: the prior quantity stands and nothing is removed.
func (s *Store) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	if s.userID == "" {
		return ErrNotAuthenticated
	}
	if quantity < 1 {
		return nil
	}

	if err := s.repo.UpdateQuantity(ctx, s.userID, itemID, quantity); err != nil {
		s.log.Error("failed to update cart quantity", "user_id", s.userID, "item_id", itemID, "error", err)
		return err
	}

	return s.Refresh(ctx)
}

// Refresh re-fetches the full snapshot for the user. On failure the
// previous snapshot is kept.
func (s *Store) Refresh(ctx context.Context) error {
	if s.userID == "" {
		return nil
	}

	lines, err := s.repo.ListByUser(ctx, s.userID)
	if err != nil {
		s.log.Error("failed to refresh cart", "user_id", s.userID, "error", err)
		return err
	}

	s.mu.Lock()
	s.lines = lines
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Clear empties the local snapshot only. The remote rows survive, so the
// cart reappears on the next refresh or login.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

// Items returns a copy of the current snapshot.
func (s *Store) Items() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CartLine(nil), s.lines...)
}

// Total returns the price sum over the current snapshot.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pricing.Subtotal(s.lines)
}

// Count returns the quantity sum over the current snapshot.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Ready reports whether at least one snapshot has been loaded.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
