package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crossquote/internal/config"
	"crossquote/internal/domain"
	"crossquote/internal/port"
)

const defaultKeyPrefix = "crossquote:quote:"

// stringStore is the subset of redis.Cmdable the quote cache uses.
type stringStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisQuoteCache stores computed quotes as JSON under a key prefix with a TTL.
type RedisQuoteCache struct {
	store     stringStore
	keyPrefix string
	ttl       time.Duration
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisQuoteCache wraps an existing client. A zero ttl keeps entries until evicted.
func NewRedisQuoteCache(client redis.Cmdable, keyPrefix string, ttl time.Duration) *RedisQuoteCache {
	return newRedisQuoteCache(client, keyPrefix, ttl)
}

func newRedisQuoteCache(store stringStore, keyPrefix string, ttl time.Duration) *RedisQuoteCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisQuoteCache{store: store, keyPrefix: keyPrefix, ttl: ttl}
}

// Get returns (nil, nil) when the key is absent.
func (c *RedisQuoteCache) Get(ctx context.Context, key string) (*domain.Quote, error) {
	raw, err := c.store.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("quoteCache.Get: %w", err)
	}

	var quote domain.Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return nil, fmt.Errorf("quoteCache.Get decode: %w", err)
	}
	return &quote, nil
}

func (c *RedisQuoteCache) Set(ctx context.Context, key string, quote *domain.Quote) error {
	raw, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("quoteCache.Set encode: %w", err)
	}
	if err := c.store.Set(ctx, c.keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("quoteCache.Set: %w", err)
	}
	return nil
}

var _ port.QuoteCache = (*RedisQuoteCache)(nil)
