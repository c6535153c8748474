package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/stg-catalog/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository defines data access for the orders and order_items
// collections.
type OrderRepository interface {
	Insert(ctx context.Context, order models.Order) error
	InsertItem(ctx context.Context, item models.OrderItem) error
	ListByEmail(ctx context.Context, email string) ([]models.Order, error)
}

// MongoOrderRepository implements OrderRepository over the orders and
// order_items collections.
type MongoOrderRepository struct {
	orders *mongo.Collection
	items  *mongo.Collection
}

// NewMongoOrderRepository creates an order repository bound to db.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		orders: db.Collection(ordersCollection),
		items:  db.Collection(orderItemsCollection),
	}
}

// Insert persists an order header.
func (r *MongoOrderRepository) Insert(ctx context.Context, order models.Order) error {
	_, err := r.orders.InsertOne(ctx, order)
	return err
}

// InsertItem persists a single order item.
func (r *MongoOrderRepository) InsertItem(ctx context.Context, item models.OrderItem) error {
	_, err := r.items.InsertOne(ctx, item)
	return err
}

// ListByEmail returns a customer's orders with their items embedded,
// newest first.
func (r *MongoOrderRepository) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.orders.Find(ctx, bson.M{"customer_email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		return []models.Order{}, nil
	}

	for i := range orders {
		itemCursor, err := r.items.Find(ctx, bson.M{"order_id": orders[i].ID})
		if err != nil {
			return nil, err
		}
		var items []models.OrderItem
		if err := itemCursor.All(ctx, &items); err != nil {
			itemCursor.Close(ctx)
			return nil, err
		}
		itemCursor.Close(ctx)
		orders[i].Items = items
	}

	return orders, nil
}

// InMemoryOrderRepository implements OrderRepository in memory.
type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
	items  map[string][]models.OrderItem // keyed by order ID
}

// NewInMemoryOrderRepository creates an empty in-memory order repository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[string]models.Order),
		items:  make(map[string][]models.OrderItem),
	}
}

// Insert stores an order header.
func (r *InMemoryOrderRepository) Insert(ctx context.Context, order models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.Items = nil
	r.orders[order.ID] = order
	return nil
}

// InsertItem stores an order item.
func (r *InMemoryOrderRepository) InsertItem(ctx context.Context, item models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.OrderID] = append(r.items[item.OrderID], item)
	return nil
}

// ListByEmail returns a customer's orders, newest first.
func (r *InMemoryOrderRepository) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.CustomerEmail == email {
			order.Items = append([]models.OrderItem(nil), r.items[order.ID]...)
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}
