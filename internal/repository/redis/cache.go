package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/testforge/pomgen/internal/analyzer"
	"github.com/testforge/pomgen/internal/config"
)

// Key prefix for cached per-page extraction results
const prefixElements = "elements:"

// DefaultTTL bounds cache staleness when no TTL is configured
const DefaultTTL = 15 * time.Minute

// Cache stores per-page extraction results in Redis so repeated analyses of
// the same URL skip the crawl. Implements analyzer.ElementCache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new Redis element cache
func New(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Health checks Redis connectivity
func (c *Cache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetElements retrieves cached extraction results for a page. The second
// return value reports whether the key was present.
func (c *Cache) GetElements(ctx context.Context, pageURL string) ([]analyzer.ElementInfo, bool, error) {
	data, err := c.client.Get(ctx, prefixElements+pageURL).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var elements []analyzer.ElementInfo
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, false, err
	}

	return elements, true, nil
}

// PutElements caches extraction results for a page
func (c *Cache) PutElements(ctx context.Context, pageURL string, elements []analyzer.ElementInfo) error {
	data, err := json.Marshal(elements)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, prefixElements+pageURL, data, c.ttl).Err()
}
