// Package cache provides a byte-oriented cache used to decorate the product store.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is not present.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a minimal key-value cache with per-entry TTL.
type Cache interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the value stored under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
