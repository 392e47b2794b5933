// Package cache stores serialized responses for a bounded time.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL byte cache. Get reports a miss with ok == false and a nil
// error.
//
// Clear advances the generation. Set stores only while the generation still
// equals gen, so a value computed before a Clear is never written after it.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, gen int64) (stored bool, err error)
	Clear(ctx context.Context) error
}
