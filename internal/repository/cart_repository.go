package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stg-catalog/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartRepository defines data access for the cart_items collection.
// Upsert increments the quantity when the same user/product pair already
// exists; ListByUser returns items joined with their products.
type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.CartLine, error)
	Upsert(ctx context.Context, userID, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error
	Delete(ctx context.Context, userID, itemID string) error
}

// MongoCartRepository implements CartRepository over the cart_items
// collection, joining products with a $lookup.
type MongoCartRepository struct {
	coll *mongo.Collection
}

// NewMongoCartRepository creates a cart repository bound to db.
func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{coll: db.Collection(cartItemsCollection)}
}

// ListByUser returns the user's cart items with their products embedded.
// Items whose product no longer exists are dropped by the $unwind.
func (r *MongoCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartLine, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"user_id": userID}},
		{"$lookup": bson.M{
			"from":         productsCollection,
			"localField":   "product_id",
			"foreignField": "_id",
			"as":           "product",
		}},
		{"$unwind": "$product"},
		{"$sort": bson.M{"added_at": 1}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lines []models.CartLine
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	return lines, nil
}

// Upsert adds quantity to an existing user/product row or inserts a new one.
func (r *MongoCartRepository) Upsert(ctx context.Context, userID, productID string, quantity int) error {
	filter := bson.M{
		"user_id":    userID,
		"product_id": productID,
	}
	update := bson.M{
		"$inc": bson.M{"quantity": quantity},
		"$setOnInsert": bson.M{
			"_id":      uuid.New().String(),
			"added_at": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.coll.UpdateOne(ctx, filter, update, opts)
	return err
}

// UpdateQuantity overwrites the quantity of an item owned by the user.
// A missing item is a no-op.
func (r *MongoCartRepository) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	filter := bson.M{"_id": itemID, "user_id": userID}
	update := bson.M{"$set": bson.M{"quantity": quantity}}

	_, err := r.coll.UpdateOne(ctx, filter, update)
	return err
}

// Delete removes an item owned by the user. A missing item is a no-op.
func (r *MongoCartRepository) Delete(ctx context.Context, userID, itemID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": itemID, "user_id": userID})
	return err
}

// InMemoryCartRepository implements CartRepository in memory, backed by a
// ProductRepository for the join. Used in tests and local development.
type InMemoryCartRepository struct {
	mu       sync.RWMutex
	items    map[string]models.CartItem // keyed by item ID
	products ProductRepository
}

// NewInMemoryCartRepository creates an empty in-memory cart repository.
func NewInMemoryCartRepository(products ProductRepository) *InMemoryCartRepository {
	return &InMemoryCartRepository{
		items:    make(map[string]models.CartItem),
		products: products,
	}
}

// ListByUser returns the user's items joined with their products.
func (r *InMemoryCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartLine, error) {
	r.mu.RLock()
	items := make([]models.CartItem, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	r.mu.RUnlock()

	lines := make([]models.CartLine, 0, len(items))
	for _, item := range items {
		product, err := r.products.GetByID(ctx, item.ProductID)
		if err != nil {
			// Mirror the $unwind: drop items whose product is gone.
			continue
		}
		lines = append(lines, models.CartLine{
			ID:       item.ID,
			UserID:   item.UserID,
			Quantity: item.Quantity,
			Product:  *product,
		})
	}
	return lines, nil
}

// Upsert increments quantity for an existing user/product pair or inserts.
func (r *InMemoryCartRepository) Upsert(ctx context.Context, userID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			item.Quantity += quantity
			r.items[id] = item
			return nil
		}
	}

	id := uuid.New().String()
	r.items[id] = models.CartItem{
		ID:        id,
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now().UTC(),
	}
	return nil
}

// UpdateQuantity overwrites the quantity of an owned item; missing is a no-op.
func (r *InMemoryCartRepository) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok || item.UserID != userID {
		return nil
	}
	item.Quantity = quantity
	r.items[itemID] = item
	return nil
}

// Delete removes an owned item; missing is a no-op.
func (r *InMemoryCartRepository) Delete(ctx context.Context, userID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if ok && item.UserID == userID {
		delete(r.items, itemID)
	}
	return nil
}
