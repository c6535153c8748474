package coupon

import (
	"context"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/stg-catalog/catalog-api/internal/models"
	"github.com/stg-catalog/catalog-api/internal/repository"
)

const bloomFalsePositiveRate = 0.01

// Resolver resolves coupon codes against the coupons collection. Active
// codes are cached in memory behind a bloom filter so the common case, an
// unknown code, never reaches the database. Unknown codes resolve to nil
// without error; callers treat a nil coupon as "nothing applied".
type Resolver struct {
	repo repository.CouponRepository

	mu     sync.RWMutex
	filter *bloom.BloomFilter
	cache  map[string]models.Coupon
}

// NewResolver creates a resolver over the given repository. Call Load
// before serving lookups.
func NewResolver(repo repository.CouponRepository) *Resolver {
	return &Resolver{
		repo:  repo,
		cache: make(map[string]models.Coupon),
	}
}

// Load fetches all active coupons and rebuilds the cache and bloom filter.
// Codes added to the collection afterwards are invisible until the next
// Load.
func (r *Resolver) Load(ctx context.Context) error {
	coupons, err := r.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	n := uint(len(coupons))
	if n == 0 {
		n = 1
	}
	filter := bloom.NewWithEstimates(n, bloomFalsePositiveRate)
	cache := make(map[string]models.Coupon, len(coupons))
	for _, c := range coupons {
		code := strings.ToLower(c.Code)
		filter.AddString(code)
		cache[code] = c
	}

	r.mu.Lock()
	r.filter = filter
	r.cache = cache
	r.mu.Unlock()

	return nil
}

// Resolve returns the coupon for a code, matched case-insensitively, or
// nil when the code is unknown or inactive.
func (r *Resolver) Resolve(ctx context.Context, code string) *models.Coupon {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}

	r.mu.RLock()
	filter := r.filter
	cached, ok := r.cache[code]
	r.mu.RUnlock()

	if ok {
		c := cached
		return &c
	}

	// Bloom filter says definitely absent: skip the round-trip.
	if filter != nil && !filter.TestString(code) {
		return nil
	}

	// Possible false positive, or the resolver was never loaded.
	coupon, err := r.repo.GetByCode(ctx, code)
	if err != nil {
		return nil
	}
	return coupon
}

// Stats returns cache statistics for the monitoring endpoint.
func (r *Resolver) Stats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := map[string]interface{}{
		"cached_coupons": len(r.cache),
		"filter_loaded":  r.filter != nil,
	}
	if r.filter != nil {
		stats["filter_capacity"] = r.filter.Cap()
	}
	return stats
}
