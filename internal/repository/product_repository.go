package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/stg-catalog/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// MongoProductRepository implements ProductRepository over the products
// collection. The catalog is read-only from the storefront's perspective.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a product repository bound to db.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection(productsCollection)}
}

// GetAll returns all products in the catalog.
func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// GetByID returns a product by its ID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// InMemoryProductRepository implements ProductRepository with in-memory
// storage, used in tests and local development without a database.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

// NewInMemoryProductRepository creates an in-memory product repository with seed data
func NewInMemoryProductRepository() *InMemoryProductRepository {
	products := map[string]models.Product{
		"1":  {ID: "1", Name: "Wireless Headphones", Description: "Over-ear, noise cancelling", Price: 299.90, ImageURL: "/img/headphones.jpg", Category: "Audio"},
		"2":  {ID: "2", Name: "Bluetooth Speaker", Description: "Portable, 12h battery", Price: 189.90, ImageURL: "/img/speaker.jpg", Category: "Audio"},
		"3":  {ID: "3", Name: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", Price: 349.00, ImageURL: "/img/keyboard.jpg", Category: "Peripherals"},
		"4":  {ID: "4", Name: "Gaming Mouse", Description: "16000 DPI optical sensor", Price: 159.90, ImageURL: "/img/mouse.jpg", Category: "Peripherals"},
		"5":  {ID: "5", Name: "USB-C Hub", Description: "7-in-1 with HDMI", Price: 129.90, ImageURL: "/img/hub.jpg", Category: "Accessories"},
		"6":  {ID: "6", Name: "Laptop Stand", Description: "Aluminum, adjustable height", Price: 99.90, ImageURL: "/img/stand.jpg", Category: "Accessories"},
		"7":  {ID: "7", Name: "27in Monitor", Description: "QHD IPS 144Hz", Price: 1599.00, ImageURL: "/img/monitor.jpg", Category: "Displays"},
		"8":  {ID: "8", Name: "Webcam", Description: "1080p with privacy cover", Price: 219.90, ImageURL: "/img/webcam.jpg", Category: "Peripherals"},
		"9":  {ID: "9", Name: "Desk Mat", Description: "90x40cm, stitched edges", Price: 59.90, ImageURL: "/img/deskmat.jpg", Category: "Accessories"},
		"10": {ID: "10", Name: "Smartwatch", Description: "GPS, heart-rate monitor", Price: 899.00, ImageURL: "/img/watch.jpg", Category: "Wearables"},
	}

	return &InMemoryProductRepository{
		products: products,
	}
}

// GetAll returns all products
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}
	return products, nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}
