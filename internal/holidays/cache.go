package holidays

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultCacheTTL = 24 * time.Hour

// Cache stores raw records per (country, year) query
type Cache interface {
	Get(ctx context.Context, key string) ([]Record, bool, error)
	Set(ctx context.Context, key string, records []Record, ttl time.Duration) error
}

// MemoryCache is an in-process Cache with per-entry expiry
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*cachedRecords
	now     func() time.Time
}

type cachedRecords struct {
	data      []Record
	fetchedAt time.Time
	ttl       time.Duration
}

// NewMemoryCache creates an empty MemoryCache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*cachedRecords),
		now:     time.Now,
	}
}

// Get returns cached records that have not expired
func (mc *MemoryCache) Get(_ context.Context, key string) ([]Record, bool, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	cached, ok := mc.entries[key]
	if !ok || mc.now().Sub(cached.fetchedAt) >= cached.ttl {
		return nil, false, nil
	}
	return cached.data, true, nil
}

// Set stores records under key
func (mc *MemoryCache) Set(_ context.Context, key string, records []Record, ttl time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.entries[key] = &cachedRecords{
		data:      records,
		fetchedAt: mc.now(),
		ttl:       ttl,
	}
	return nil
}

// Clear drops every entry
func (mc *MemoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.entries = make(map[string]*cachedRecords)
}

// CachedSource serves records from a Cache and fills it from the wrapped Source.
// Cache errors are logged and treated as misses.
type CachedSource struct {
	source Source
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSource wraps source with cache
func NewCachedSource(source Source, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedSource{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Fetch returns cached records or fetches and caches them
func (cs *CachedSource) Fetch(ctx context.Context, country string, year int) ([]Record, error) {
	key := CacheKey(country, year)

	records, ok, err := cs.cache.Get(ctx, key)
	if err != nil {
		cs.logger.Warn("Holiday cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		cs.logger.Debug("Using cached holidays", zap.String("key", key))
		return records, nil
	}

	records, err = cs.source.Fetch(ctx, country, year)
	if err != nil {
		return nil, err
	}

	if err := cs.cache.Set(ctx, key, records, cs.ttl); err != nil {
		cs.logger.Warn("Holiday cache write failed", zap.String("key", key), zap.Error(err))
	}

	return records, nil
}

// CacheKey builds the cache key for a query
func CacheKey(country string, year int) string {
	if year <= 0 {
		return fmt.Sprintf("holidays:%s:default", normalizeCountry(country))
	}
	return fmt.Sprintf("holidays:%s:%d", normalizeCountry(country), year)
}
