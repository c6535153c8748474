package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/stg-catalog/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrCouponNotFound = errors.New("coupon not found")
)

// CouponRepository defines data access for the coupons collection.
// Codes are stored lowercase; lookups are case-insensitive.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	GetAll(ctx context.Context) ([]models.Coupon, error)
}

// MongoCouponRepository implements CouponRepository over the coupons
// collection.
type MongoCouponRepository struct {
	coll *mongo.Collection
}

// NewMongoCouponRepository creates a coupon repository bound to db.
func NewMongoCouponRepository(db *mongo.Database) *MongoCouponRepository {
	return &MongoCouponRepository{coll: db.Collection(couponsCollection)}
}

// GetByCode returns an active coupon by its code.
func (r *MongoCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	filter := bson.M{"_id": strings.ToLower(code), "active": true}
	err := r.coll.FindOne(ctx, filter).Decode(&coupon)
	if err == mongo.ErrNoDocuments {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// GetAll returns every active coupon.
func (r *MongoCouponRepository) GetAll(ctx context.Context) ([]models.Coupon, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

// InMemoryCouponRepository implements CouponRepository in memory.
type InMemoryCouponRepository struct {
	mu      sync.RWMutex
	coupons map[string]models.Coupon // keyed by lowercase code
}

// NewInMemoryCouponRepository creates an in-memory coupon repository seeded
// with the storefront's default codes: a 10% subtotal discount and a 20.00
// shipping offset.
func NewInMemoryCouponRepository() *InMemoryCouponRepository {
	return &InMemoryCouponRepository{
		coupons: map[string]models.Coupon{
			"desconto10": {Code: "desconto10", Value: 0.10, Type: models.CouponPercentage, Active: true},
			"frete20":    {Code: "frete20", Value: 20, Type: models.CouponShipping, Active: true},
		},
	}
}

// GetByCode returns an active coupon by its code, case-insensitively.
func (r *InMemoryCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupon, ok := r.coupons[strings.ToLower(code)]
	if !ok || !coupon.Active {
		return nil, ErrCouponNotFound
	}
	return &coupon, nil
}

// GetAll returns every active coupon.
func (r *InMemoryCouponRepository) GetAll(ctx context.Context) ([]models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupons := make([]models.Coupon, 0, len(r.coupons))
	for _, coupon := range r.coupons {
		if coupon.Active {
			coupons = append(coupons, coupon)
		}
	}
	return coupons, nil
}
