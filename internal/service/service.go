// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	perrors "github.com/storecore/catalog/internal/errors"
	"github.com/storecore/catalog/internal/store"
	"github.com/storecore/catalog/pkg/messaging"
	"github.com/storecore/catalog/pkg/messaging/events"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxQueryResults caps the number of products a single query returns.
const maxQueryResults = 100

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id primitive.ObjectID) (*ProductDto, error)

	// Query returns products whose price falls within the optional bounds.
	// Returns an empty slice if no products match.
	Query(ctx context.Context, minPrice, maxPrice *float64) ([]ProductDto, error)

	// Create adds a new product to the system.
	// Returns ErrProductConflict if a product with the same name already exists.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update applies the non-nil fields of the DTO to an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id primitive.ObjectID, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
}

// NewService creates a new instance of ProductService with the provided repository and publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	return &Service{
		repository: repo,
		publisher:  publisher,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name  string  `json:"name"  validate:"required,max=100"`
	Price float64 `json:"price" validate:"required,min=0"`
}

// ProductUpdateDto represents the data transfer object for partially updating
// a product. Nil fields are left untouched.
type ProductUpdateDto struct {
	Name      *string    `json:"name,omitempty"       validate:"omitempty,max=100"`
	Price     *float64   `json:"price,omitempty"      validate:"omitempty,min=0"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id primitive.ObjectID) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id.Hex(), err)
	}

	return toDto(product), nil
}

// Query retrieves products within the given price bounds and returns them as ProductDTOs.
// Returns an empty slice if no products match or error if the retrieval fails.
func (s *Service) Query(ctx context.Context, minPrice, maxPrice *float64) ([]ProductDto, error) {
	products, err := s.repository.FindByPriceRange(ctx, minPrice, maxPrice, maxQueryResults)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// Create creates a new product and returns it as a ProductDto.
// Returns ErrProductConflict if a product with the same name already exists.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	existing, err := s.repository.FindByName(ctx, product.Name)
	if err != nil && !errors.Is(err, perrors.ErrProductNotFound) {
		return nil, fmt.Errorf("failed to check product name %q: %w", product.Name, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("product name %q: %w", product.Name, perrors.ErrProductConflict)
	}

	id, err := s.repository.Insert(ctx, store.Product{
		Name:  product.Name,
		Price: product.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	created, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created product %s: %w", id.Hex(), err)
	}

	event := events.ProductCreatedEvent{
		EventID:    uuid.New(),
		ProductID:  created.ID.Hex(),
		Name:       created.Name,
		Price:      created.Price,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ProductCreatedEvent", "error", err)
	}

	return toDto(created), nil
}

// Update applies the non-nil fields of the DTO to an existing product and
// returns the updated product as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, product ProductUpdateDto) (*ProductDto, error) {
	patch := store.ProductPatch{
		Name:      product.Name,
		Price:     product.Price,
		UpdatedAt: product.UpdatedAt,
	}
	if err := s.repository.UpdateOne(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id.Hex(), err)
	}

	updated, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated product %s: %w", id.Hex(), err)
	}

	event := events.ProductUpdatedEvent{
		EventID:    uuid.New(),
		ProductID:  updated.ID.Hex(),
		Name:       updated.Name,
		Price:      updated.Price,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ProductUpdatedEvent", "error", err)
	}

	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repository.DeleteOne(ctx, id); err != nil {
		return err
	}

	event := events.ProductDeletedEvent{
		EventID:    uuid.New(),
		ProductID:  id.Hex(),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ProductDeletedEvent", "error", err)
	}

	return nil
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:        product.ID.Hex(),
		Name:      product.Name,
		Price:     product.Price,
		UpdatedAt: product.UpdatedAt,
	}
}
