package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"so101builder/internal/logger"

	goredis "github.com/redis/go-redis/v9"
)

// Cache stores search results by query. Failures are logged and read as a
// miss; the cache never fails a search.
type Cache interface {
	Get(ctx context.Context, query string) ([]SearchResult, bool)
	Set(ctx context.Context, query string, results []SearchResult, ttl time.Duration)
}

type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]SearchResult, bool) { return nil, false }
func (NopCache) Set(context.Context, string, []SearchResult, time.Duration) {}

const cacheKeyPrefix = "so101:price-search:"

type RedisCache struct {
	rdb *goredis.Client
	log *logger.Logger
}

// NewRedisCache connects to REDIS_URL and checks the connection once.
func NewRedisCache(ctx context.Context, redisURL string, log *logger.Logger) (*RedisCache, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second

	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{rdb: rdb, log: log.With("service", "PriceSearchCache")}, nil
}

func (c *RedisCache) Get(ctx context.Context, query string) ([]SearchResult, bool) {
	raw, err := c.rdb.Get(ctx, cacheKeyPrefix+query).Bytes()
	if err == goredis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("price cache read failed", "error", err)
		return nil, false
	}

	var results []SearchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		c.log.Warn("price cache entry corrupt", "error", err)
		return nil, false
	}
	return results, true
}

func (c *RedisCache) Set(ctx context.Context, query string, results []SearchResult, ttl time.Duration) {
	raw, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+query, raw, ttl).Err(); err != nil {
		c.log.Warn("price cache write failed", "error", err)
	}
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
