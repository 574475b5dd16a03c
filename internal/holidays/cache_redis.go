package holidays

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache shared across processes
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed cache. Keys are stored as "<prefix>:<key>".
func NewRedisCache(rdb *redis.Client, prefix string) *RedisCache {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "booking-form"
	}
	return &RedisCache{rdb: rdb, prefix: prefix}
}

// Get returns cached records; a missing key is a miss, not an error
func (rc *RedisCache) Get(ctx context.Context, key string) ([]Record, bool, error) {
	raw, err := rc.rdb.Get(ctx, rc.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, fmt.Errorf("decode cached holidays: %w", err)
	}
	return records, true, nil
}

// Set stores records with expiry
func (rc *RedisCache) Set(ctx context.Context, key string, records []Record, ttl time.Duration) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode holidays: %w", err)
	}
	if err := rc.rdb.Set(ctx, rc.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (rc *RedisCache) Close() error {
	return rc.rdb.Close()
}

func (rc *RedisCache) key(key string) string {
	return rc.prefix + ":" + key
}
