// Package cache provides a small TTL key/value cache behind one interface,
// backed either by process memory or by Redis.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with a time-to-live.
// Get reports a miss (false) for both absent and expired keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
