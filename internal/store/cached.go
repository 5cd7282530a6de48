package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/storecore/catalog/internal/cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// productKey builds the cache key for a single product document.
func productKey(id primitive.ObjectID) string {
	return "product:" + id.Hex()
}

// CachedStore decorates a ProductStore with a read-through cache for by-ID
// lookups. Mutations invalidate the cached entry. Cache failures are logged
// and never fail the request.
type CachedStore struct {
	ProductStore
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedStore wraps inner with a read-through cache.
func NewCachedStore(inner ProductStore, c cache.Cache, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		ProductStore: inner,
		cache:        c,
		ttl:          ttl,
		logger:       logger.With("component", "cached_store"),
	}
}

// FindByID serves the product from the cache when possible, falling back to
// the underlying store and populating the cache on a miss.
func (s *CachedStore) FindByID(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	key := productKey(id)
	data, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var product Product
		jsonErr := json.Unmarshal(data, &product)
		if jsonErr == nil {
			return &product, nil
		}
		s.logger.WarnContext(ctx, "Failed to decode cached product, falling back to store", "key", key, "error", jsonErr)
	case !errors.Is(err, cache.ErrCacheMiss):
		s.logger.WarnContext(ctx, "Cache lookup failed, falling back to store", "key", key, "error", err)
	}

	product, err := s.ProductStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, product)
	return product, nil
}

// UpdateOne delegates to the underlying store and invalidates the cached entry.
func (s *CachedStore) UpdateOne(ctx context.Context, id primitive.ObjectID, patch ProductPatch) error {
	if err := s.ProductStore.UpdateOne(ctx, id, patch); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// DeleteOne delegates to the underlying store and invalidates the cached entry.
func (s *CachedStore) DeleteOne(ctx context.Context, id primitive.ObjectID) error {
	if err := s.ProductStore.DeleteOne(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CachedStore) put(ctx context.Context, key string, product *Product) {
	data, err := json.Marshal(product)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to encode product for cache", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "Failed to cache product", "key", key, "error", err)
	}
}

func (s *CachedStore) invalidate(ctx context.Context, id primitive.ObjectID) {
	key := productKey(id)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate cached product", "key", key, "error", err)
	}
}
