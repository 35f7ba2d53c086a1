// Package cache provides the TTL cache injected into components that keep
// short-lived state across requests, such as the FatSecret access token and
// food nutrient responses. Two implementations exist: an in-process Memory
// cache with bounded size and a Redis cache for multi-instance deployments.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache stores opaque values under string keys with a per-entry TTL.
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// GetJSON loads key and decodes it into dst. ok is false on a miss.
func GetJSON(ctx context.Context, c Cache, key string, dst any) (ok bool, err error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key for ttl.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}
