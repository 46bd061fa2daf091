package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amyangfei/redlock-go/v3/redlock"
	redis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/internal/adapters/config"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
)

const keyPrefix = "tadawul:"

// Client wraps RedLock manager for job locking + standard Redis for response caching
type Client struct {
	lockManager *redlock.RedLock
	cache       *redis.Client
	ttl         time.Duration
	lockExpiry  time.Duration
}

// New creates new Redis client with RedLock support + caching
func New(cfg *config.RedisConfig) (*Client, error) {
	redisAddrs := []string{fmt.Sprintf("tcp://%s", cfg.Addr())}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lockManager, err := redlock.NewRedLock(ctx, redisAddrs)
	if err != nil {
		return nil, fmt.Errorf("failed to create redlock manager: %w", err)
	}

	logger.Info("redis redlock manager initialized",
		zap.Strings("addresses", redisAddrs),
	)

	cacheClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := cacheClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
	}

	logger.Info("redis cache client initialized",
		zap.String("address", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Duration("ttl", cfg.CacheTTL),
	)

	return &Client{
		lockManager: lockManager,
		cache:       cacheClient,
		ttl:         cfg.CacheTTL,
		lockExpiry:  cfg.LockExpiry,
	}, nil
}

// NewCacheOnly wraps an existing go-redis client without lock support
func NewCacheOnly(cache *redis.Client, ttl time.Duration) *Client {
	return &Client{cache: cache, ttl: ttl}
}

// LockFactory returns a factory for job locks.
// Without a lock manager every lock is granted locally.
func (c *Client) LockFactory() LockFactory {
	if c.lockManager == nil {
		return NewLocalLockFactory()
	}
	return NewRedisLockFactory(c.lockManager, c.lockExpiry)
}

// Close closes redis connections
func (c *Client) Close() error {
	if c.cache != nil {
		logger.Info("closing redis cache client")
		if err := c.cache.Close(); err != nil {
			return fmt.Errorf("failed to close redis cache: %w", err)
		}
	}

	return nil
}

// Health checks redis health
func (c *Client) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.cache.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	return nil
}

// ============ CACHING METHODS ============

// GetJSON loads a cached value into dst. Reports false on a cache miss.
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := c.cache.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}

	return true, nil
}

// SetJSON stores value under key using the configured TTL
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}

	if err := c.cache.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}

	return nil
}

// Invalidate deletes cached keys
func (c *Client) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = keyPrefix + k
	}

	if err := c.cache.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	return nil
}
