package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	scanBatch     = 100
	generationKey = "__generation"
)

// setScript writes KEYS[2] only while the counter in KEYS[1] equals ARGV[1].
// A missing counter reads as generation 0.
var setScript = redis.NewScript(`
local gen = redis.call("GET", KEYS[1]) or "0"
if gen ~= ARGV[1] then
    return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// RedisCache stores entries under a key prefix so Clear only touches its own
// keys.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return val, true, nil
}

func (r *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, r.prefix+generationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("cache generation: %w", err)
	}
	return gen, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration, gen int64) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	keys := []string{r.prefix + generationKey, r.prefix + key}
	stored, err := setScript.Run(ctx, r.client, keys, gen, value, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("cache set: %w", err)
	}
	return stored == 1, nil
}

// Clear advances the generation before deleting, so fills that started
// earlier cannot land once the scan has passed their key.
func (r *RedisCache) Clear(ctx context.Context) error {
	genKey := r.prefix + generationKey
	if err := r.client.Incr(ctx, genKey).Err(); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}

	iter := r.client.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()

	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		if iter.Val() == genKey {
			continue
		}
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache clear: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("cache clear: %w", err)
		}
	}
	return nil
}
