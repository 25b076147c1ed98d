// Package cache is a JSON read-through cache on Redis.
//
// A nil *Cache is valid and behaves as a cache that always misses, so callers
// never branch on whether REDIS_ADDR is configured.
//
// Entries are invalidated by moving a version counter rather than deleting
// keys: readers fold the version they saw into the entry key, so a value
// computed before a write lands under a version nobody reads again.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/appaccess/config"
	"github.com/shashiranjanraj/appaccess/pkg/metrics"
)

const driverName = "redis"

type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// Connect builds a Cache from REDIS_ADDR and verifies it with a ping. Keys
// are namespaced by the configured database. Returns (nil, nil) when Redis
// is not configured.
func Connect(ctx context.Context) (*Cache, error) {
	addr := config.RedisAddr()
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	prefix := Namespace(config.DatabaseDriver(), config.DatabaseDSN())
	return New(rdb, config.CacheTTL(), prefix), nil
}

// New wraps an existing client. Every key is stored under prefix.
func New(rdb *redis.Client, ttl time.Duration, prefix string) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, prefix: prefix}
}

// Namespace is the key prefix for one database. The DSN is hashed so
// credentials never reach Redis.
func Namespace(driver, dsn string) string {
	sum := sha256.Sum256([]byte(dsn))
	return fmt.Sprintf("appaccess:%s:%x:", driver, sum[:6])
}

func (c *Cache) key(k string) string { return c.prefix + k }

// Get unmarshals the value under key into dest.
// Returns true on a hit, false on miss or any error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}

	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		metrics.CacheMisses.WithLabelValues(driverName).Inc()
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(driverName).Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues(driverName).Inc()
	return true
}

// Set stores value under key for the cache's TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.key(key), data, c.ttl).Err()
}

// Version reads the counter under key. An unset counter is version 0.
func (c *Cache) Version(ctx context.Context, key string) (int64, error) {
	if c == nil {
		return 0, nil
	}

	v, err := c.rdb.Get(ctx, c.key(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Bump advances the counter under key.
func (c *Cache) Bump(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	return c.rdb.Incr(ctx, c.key(key)).Err()
}

// Close releases the client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
