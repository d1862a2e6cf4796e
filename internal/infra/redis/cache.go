package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samantha-blablabla/MyVault-sub000/pkg/logger"
)

const (
	// DefaultTTL is the default TTL for cached quotes
	DefaultTTL = 60 * time.Second

	// KeyPrefix is the prefix for quote cache keys
	KeyPrefix = "quote:"
)

// Cache represents a Redis-backed quote cache
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewCache creates a new quote cache. A ttl of zero or less uses DefaultTTL.
func NewCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "cache"),
	}
}

// CachedQuote represents a cached quote with metadata
type CachedQuote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Set stores a quote in the cache with the cache's TTL
func (c *Cache) Set(ctx context.Context, symbol string, price float64) error {
	return c.SetWithTTL(ctx, symbol, price, c.ttl)
}

// SetWithTTL stores a quote in the cache with custom TTL
func (c *Cache) SetWithTTL(ctx context.Context, symbol string, price float64, ttl time.Duration) error {
	key := fmt.Sprintf("%s%s", KeyPrefix, symbol)

	cached := CachedQuote{
		Symbol:    symbol,
		Price:     price,
		UpdatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "symbol", symbol, "error", err)
		return fmt.Errorf("failed to set cached quote: %w", err)
	}

	return nil
}

// GetMultiple retrieves cached quotes for multiple symbols
func (c *Cache) GetMultiple(ctx context.Context, symbols []string) (map[string]float64, error) {
	if len(symbols) == 0 {
		return make(map[string]float64), nil
	}

	pipe := c.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(symbols))
	for i, symbol := range symbols {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf("%s%s", KeyPrefix, symbol))
	}

	// redis.Nil here just means some keys missed; only real pipeline
	// failures surface
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		c.logger.Error("cache error", "operation", "mget", "error", err)
		return nil, fmt.Errorf("failed to read cached quotes: %w", err)
	}

	result := make(map[string]float64)
	for i, cmd := range cmds {
		val, err := cmd.Result()
		if err != nil {
			continue // Skip missing keys and individual errors
		}

		var cached CachedQuote
		if err := json.Unmarshal([]byte(val), &cached); err != nil {
			continue
		}

		result[symbols[i]] = cached.Price
	}

	return result, nil
}

// Clear removes all cached quotes
func (c *Cache) Clear(ctx context.Context) error {
	pattern := fmt.Sprintf("%s*", KeyPrefix)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	pipe := c.client.Pipeline()
	count := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++
		if count >= 100 {
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			pipe = c.client.Pipeline()
			count = 0
		}
	}

	if count > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	return iter.Err()
}
