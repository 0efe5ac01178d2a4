package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
)

// keyPrefix namespaces session handles in a shared Redis instance.
const keyPrefix = "session:"

// RedisCache implements Cache over a go-redis client.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Connect opens a client for the given address and verifies the connection
// with a ping. Callers treat a failure here as fatal at process start.
func Connect(ctx context.Context, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	return NewRedisCache(client), nil
}

func (c *RedisCache) Set(ctx context.Context, jti string, signedToken string, ttl time.Duration) error {
	if err := c.client.Set(ctx, keyPrefix+jti, signedToken, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, jti string) (string, error) {
	val, err := c.client.Get(ctx, keyPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("cache get: %w", err)
	}
	return val, nil
}

func (c *RedisCache) Delete(ctx context.Context, jti string) error {
	// DEL of a missing key returns 0, not an error, which keeps teardown
	// idempotent.
	if err := c.client.Del(ctx, keyPrefix+jti).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
