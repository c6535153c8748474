package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/stg-catalog/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already registered")
)

// UserRepository defines data access for the users collection.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, user models.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// MongoUserRepository implements UserRepository over the users collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a user repository bound to db.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

// GetByEmail returns a user by email, matched lowercase.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns a user by ID.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Insert creates a user, failing with ErrUserExists on a duplicate email.
func (r *MongoUserRepository) Insert(ctx context.Context, user models.User) error {
	err := r.coll.FindOne(ctx, bson.M{"email": user.Email}).Err()
	if err == nil {
		return ErrUserExists
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	_, err = r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrUserExists
	}
	return err
}

// TouchLastLogin records a successful login timestamp.
func (r *MongoUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login": at}})
	return err
}

// InMemoryUserRepository implements UserRepository in memory.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User // keyed by user ID
}

// NewInMemoryUserRepository creates an empty in-memory user repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[string]models.User)}
}

// GetByEmail returns a user by email, matched lowercase.
func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByID returns a user by ID.
func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := user
	return &u, nil
}

// Insert creates a user, failing with ErrUserExists on a duplicate email.
func (r *InMemoryUserRepository) Insert(ctx context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return ErrUserExists
		}
	}
	r.users[user.ID] = user
	return nil
}

// TouchLastLogin records a successful login timestamp.
func (r *InMemoryUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.LastLogin = at
	r.users[id] = user
	return nil
}
