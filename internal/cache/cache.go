// Package cache stores JSON-encoded values with a TTL, in process or in Redis.
package cache

import (
	"context"
	"time"
)

// Cache is the store used for resolved order flows. Values are copied in and out
// as JSON, so callers may mutate what they get back.
type Cache interface {
	// Get decodes the value under key into dest. found is false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}
