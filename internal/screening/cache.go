package screening

import (
	"context"
	"strings"
	"sync"
	"time"

	"freightgate/internal/domain"
	"freightgate/pkg/cache"
	"freightgate/pkg/logger"
)

// CacheKey normalizes a party into its cache identity: lower-cased name,
// country, and address joined by "|", empty fields omitted.
func CacheKey(party domain.ScreeningParty) string {
	parts := make([]string, 0, 3)
	for _, field := range []string{party.Name, party.Country, party.Address} {
		if field = strings.ToLower(strings.TrimSpace(field)); field != "" {
			parts = append(parts, field)
		}
	}
	return strings.Join(parts, "|")
}

// Cache memoizes screening results for the external list's refresh window.
// Implementations must be safe for concurrent use. A cache failure is never
// fatal: Get misses and Put is best-effort, so a broken cache degrades to
// extra gateway queries rather than wrong answers.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.ScreeningResult, bool)
	Put(ctx context.Context, key string, result *domain.ScreeningResult, ttl time.Duration)
	// Clear is for administrative and test use only; it must not be
	// reachable from normal request paths.
	Clear(ctx context.Context) error
}

// MemoryCache is a mutex-guarded in-process cache. Expiry is checked lazily
// on Get; there is no background eviction.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	result    domain.ScreeningResult
	expiresAt time.Time
}

// NewMemoryCache constructs an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.ScreeningResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	result := entry.result
	return &result, true
}

func (c *MemoryCache) Put(ctx context.Context, key string, result *domain.ScreeningResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		result:    *result,
		expiresAt: time.Now().Add(ttl),
	}
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]memoryEntry)
	return nil
}

const redisKeyPrefix = "screening:party:"

// RedisCache stores screening results in Redis so repeated lookups survive
// process restarts and are shared across instances.
type RedisCache struct {
	store  *cache.RedisCache
	logger logger.Logger
}

// NewRedisCache wraps an established Redis connection.
func NewRedisCache(store *cache.RedisCache, log logger.Logger) *RedisCache {
	return &RedisCache{store: store, logger: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.ScreeningResult, bool) {
	var result domain.ScreeningResult
	if err := c.store.Get(ctx, redisKeyPrefix+key, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Put(ctx context.Context, key string, result *domain.ScreeningResult, ttl time.Duration) {
	if err := c.store.Set(ctx, redisKeyPrefix+key, result, ttl); err != nil {
		c.logger.Warn("Failed to cache screening result", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (c *RedisCache) Clear(ctx context.Context) error {
	return c.store.DeleteByPrefix(ctx, redisKeyPrefix)
}
