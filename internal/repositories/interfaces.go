package repositories

import (
	"context"
	"errors"

	"golang-food-storefront/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a key or record does not exist.
var ErrNotFound = errors.New("not found")

// CartStore is the key-value capability the cart manager persists to.
// Values are opaque bytes; interpreting them is the manager's job.
type CartStore interface {
	// Get returns ErrNotFound when key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ProductRepository interface for MongoDB menu operations
type ProductRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]models.Product, error)
}
