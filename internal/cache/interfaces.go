package cache

import (
	"context"
	"time"
)

// Cache is a short-TTL read cache for hot query results (the product list).
// This abstraction allows swapping between memory cache (development) and
// Redis cache (production) without changing business logic. It is distinct
// from the durable device store: losing cache content is always safe.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error
}

// CacheError is a sentinel error type for cache failures.
type CacheError string

func (e CacheError) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss CacheError = "cache miss"
)
