package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/storecore/catalog/internal/cache"
	perrors "github.com/storecore/catalog/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeCache is an in-memory Cache implementation with injectable failures.
type fakeCache struct {
	entries map[string][]byte
	getErr  error
	setErr  error
	delErr  error
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	data, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return data, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets++
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	if c.delErr != nil {
		return c.delErr
	}
	c.deletes++
	delete(c.entries, key)
	return nil
}

// stubProductStore is a minimal ProductStore that counts lookups.
type stubProductStore struct {
	product   *Product
	err       error
	findCalls int
}

func (s *stubProductStore) FindByID(_ context.Context, _ primitive.ObjectID) (*Product, error) {
	s.findCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubProductStore) FindByName(_ context.Context, _ string) (*Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubProductStore) FindByPriceRange(_ context.Context, _, _ *float64, _ int64) ([]Product, error) {
	return nil, s.err
}

func (s *stubProductStore) Insert(_ context.Context, _ Product) (primitive.ObjectID, error) {
	if s.err != nil {
		return primitive.NilObjectID, s.err
	}
	return s.product.ID, nil
}

func (s *stubProductStore) UpdateOne(_ context.Context, _ primitive.ObjectID, _ ProductPatch) error {
	return s.err
}

func (s *stubProductStore) DeleteOne(_ context.Context, _ primitive.ObjectID) error {
	return s.err
}

func (s *stubProductStore) EnsureIndexes(_ context.Context) error {
	return s.err
}

func newCachedStoreForTest(inner ProductStore, c cache.Cache) *CachedStore {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewCachedStore(inner, c, time.Minute, logger)
}

func Test_CachedStore_FindByID(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("65b9a1f4e8a5c2d3b4e5f601")
	stored := &Product{ID: mockID, Name: "Toy", Price: 59.99}

	t.Run("miss populates the cache", func(t *testing.T) {
		// given
		inner := &stubProductStore{product: stored}
		fake := newFakeCache()
		cached := newCachedStoreForTest(inner, fake)

		// when
		first, err := cached.FindByID(context.Background(), mockID)
		require.NoError(t, err)
		second, err := cached.FindByID(context.Background(), mockID)
		require.NoError(t, err)

		// then
		assert.Equal(t, stored, first)
		assert.Equal(t, stored, second)
		assert.Equal(t, 1, inner.findCalls, "second lookup should be served from the cache")
		assert.Equal(t, 1, fake.sets)
	})

	t.Run("cache failure falls back to the store", func(t *testing.T) {
		// given
		inner := &stubProductStore{product: stored}
		fake := newFakeCache()
		fake.getErr = errors.New("connection refused")
		cached := newCachedStoreForTest(inner, fake)

		// when
		product, err := cached.FindByID(context.Background(), mockID)

		// then
		require.NoError(t, err)
		assert.Equal(t, stored, product)
		assert.Equal(t, 1, inner.findCalls)
	})

	t.Run("corrupt entry falls back to the store", func(t *testing.T) {
		// given
		inner := &stubProductStore{product: stored}
		fake := newFakeCache()
		fake.entries[productKey(mockID)] = []byte("not json")
		cached := newCachedStoreForTest(inner, fake)

		// when
		product, err := cached.FindByID(context.Background(), mockID)

		// then
		require.NoError(t, err)
		assert.Equal(t, stored, product)
		assert.Equal(t, 1, inner.findCalls)
	})

	t.Run("set failure does not fail the lookup", func(t *testing.T) {
		// given
		inner := &stubProductStore{product: stored}
		fake := newFakeCache()
		fake.setErr = errors.New("connection refused")
		cached := newCachedStoreForTest(inner, fake)

		// when
		product, err := cached.FindByID(context.Background(), mockID)

		// then
		require.NoError(t, err)
		assert.Equal(t, stored, product)
		assert.Equal(t, 0, fake.sets)
	})

	t.Run("store error propagates and nothing is cached", func(t *testing.T) {
		// given
		inner := &stubProductStore{err: perrors.ErrProductNotFound}
		fake := newFakeCache()
		cached := newCachedStoreForTest(inner, fake)

		// when
		product, err := cached.FindByID(context.Background(), mockID)

		// then
		assert.Nil(t, product)
		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
		assert.Empty(t, fake.entries)
	})
}

func Test_CachedStore_UpdateOne(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("65b9a1f4e8a5c2d3b4e5f601")
	stored := &Product{ID: mockID, Name: "Toy", Price: 59.99}
	newPrice := 150.0

	t.Run("update invalidates the cached entry", func(t *testing.T) {
		// given
		inner := &stubProductStore{product: stored}
		fake := newFakeCache()
		cached := newCachedStoreForTest(inner, fake)
		_, err := cached.FindByID(context.Background(), mockID)
		require.NoError(t, err)
		require.Contains(t, fake.entries, productKey(mockID))

		// when
		err = cached.UpdateOne(context.Background(), mockID, ProductPatch{Price: &newPrice})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, fake.deletes)
		assert.NotContains(t, fake.entries, productKey(mockID))

		// A subsequent lookup goes back to the store.
		_, err = cached.FindByID(context.Background(), mockID)
		require.NoError(t, err)
		assert.Equal(t, 2, inner.findCalls)
	})

	t.Run("store error skips invalidation", func(t *testing.T) {
		// given
		inner := &stubProductStore{err: perrors.ErrProductNotFound}
		fake := newFakeCache()
		fake.entries[productKey(mockID)] = mustMarshal(t, stored)
		cached := newCachedStoreForTest(inner, fake)

		// when
		err := cached.UpdateOne(context.Background(), mockID, ProductPatch{Price: &newPrice})

		// then
		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
		assert.Equal(t, 0, fake.deletes)
		assert.Contains(t, fake.entries, productKey(mockID))
	})

	t.Run("invalidation failure does not fail the update", func(t *testing.T) {
		// given
		inner := &stubProductStore{product: stored}
		fake := newFakeCache()
		fake.delErr = errors.New("connection refused")
		cached := newCachedStoreForTest(inner, fake)

		// when
		err := cached.UpdateOne(context.Background(), mockID, ProductPatch{Price: &newPrice})

		// then
		assert.NoError(t, err)
	})
}

func Test_CachedStore_DeleteOne(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("65b9a1f4e8a5c2d3b4e5f601")
	stored := &Product{ID: mockID, Name: "Toy", Price: 59.99}

	t.Run("delete invalidates the cached entry", func(t *testing.T) {
		// given
		inner := &stubProductStore{product: stored}
		fake := newFakeCache()
		cached := newCachedStoreForTest(inner, fake)
		_, err := cached.FindByID(context.Background(), mockID)
		require.NoError(t, err)

		// when
		err = cached.DeleteOne(context.Background(), mockID)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, fake.deletes)
		assert.NotContains(t, fake.entries, productKey(mockID))
	})

	t.Run("store error skips invalidation", func(t *testing.T) {
		// given
		inner := &stubProductStore{err: perrors.ErrProductNotFound}
		fake := newFakeCache()
		cached := newCachedStoreForTest(inner, fake)

		// when
		err := cached.DeleteOne(context.Background(), mockID)

		// then
		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
		assert.Equal(t, 0, fake.deletes)
	})
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
