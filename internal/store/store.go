// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the catalog document persisted in MongoDB.
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	UpdatedAt *time.Time         `bson:"updated_at,omitempty" json:"updated_at"`
}

// ProductPatch describes a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name      *string
	Price     *float64
	UpdatedAt *time.Time
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., cached, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id primitive.ObjectID) (*Product, error)

	// FindByName retrieves a single product by its name.
	// Returns ErrProductNotFound if no product exists with the given name.
	FindByName(ctx context.Context, name string) (*Product, error)

	// FindByPriceRange returns up to limit products whose price falls within
	// the given bounds. Either bound may be nil, meaning unbounded on that
	// side. Returns an empty slice if no products match.
	FindByPriceRange(ctx context.Context, minPrice, maxPrice *float64, limit int64) ([]Product, error)

	// Insert adds a new product document and returns its assigned ID.
	// Returns ErrProductConflict if a product with the same name already exists.
	Insert(ctx context.Context, product Product) (primitive.ObjectID, error)

	// UpdateOne applies the non-nil fields of patch to an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID and
	// ErrProductConflict if the patch renames the product to a taken name.
	UpdateOne(ctx context.Context, id primitive.ObjectID, patch ProductPatch) error

	// DeleteOne removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteOne(ctx context.Context, id primitive.ObjectID) error

	// EnsureIndexes creates the indexes the store relies on.
	EnsureIndexes(ctx context.Context) error
}
