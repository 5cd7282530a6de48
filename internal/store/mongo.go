package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/storecore/catalog/internal/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements ProductStore using a MongoDB collection as the data store.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a new instance of ProductStore backed by the given collection.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

// EnsureIndexes creates the unique index on the product name. The index makes
// MongoDB enforce name uniqueness even when two inserts race.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create unique index on name: %w", err)
	}
	return nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (m *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	var product Product
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// FindByName retrieves a product by its name.
// Returns ErrProductNotFound if no product exists with the given name.
func (m *MongoStore) FindByName(ctx context.Context, name string) (*Product, error) {
	var product Product
	err := m.collection.FindOne(ctx, bson.M{"name": name}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}
	return &product, nil
}

// FindByPriceRange retrieves up to limit products whose price falls within the
// given bounds, in insertion order. Either bound may be nil.
// It returns a slice of products, which may be empty if no products match.
func (m *MongoStore) FindByPriceRange(ctx context.Context, minPrice, maxPrice *float64, limit int64) ([]Product, error) {
	filter := bson.M{}
	if minPrice != nil || maxPrice != nil {
		price := bson.M{}
		if minPrice != nil {
			price["$gte"] = *minPrice
		}
		if maxPrice != nil {
			price["$lte"] = *maxPrice
		}
		filter["price"] = price
	}

	opts := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	products := make([]Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Insert adds a new product document and returns its assigned ID.
// Returns ErrProductConflict if a product with the same name already exists.
func (m *MongoStore) Insert(ctx context.Context, product Product) (primitive.ObjectID, error) {
	result, err := m.collection.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, perrors.ErrProductConflict
		}
		return primitive.NilObjectID, fmt.Errorf("failed to insert product: %w", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted ID type %T", result.InsertedID)
	}
	return id, nil
}

// UpdateOne applies the non-nil fields of patch to an existing product.
// Returns ErrProductNotFound if no product exists with the given ID and
// ErrProductConflict if the patch renames the product to a taken name.
func (m *MongoStore) UpdateOne(ctx context.Context, id primitive.ObjectID, patch ProductPatch) error {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.UpdatedAt != nil {
		set["updated_at"] = *patch.UpdatedAt
	}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return perrors.ErrProductConflict
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// DeleteOne removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (m *MongoStore) DeleteOne(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if result.DeletedCount == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}
