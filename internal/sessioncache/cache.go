// Package sessioncache keeps auth-session tokens in Redis so the
// middleware can resolve them without a storage round trip. The cache is
// optional; every method on a nil cache reports ErrUnavailable and the
// caller falls back to storage.
package sessioncache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zapcore"
)

var (
	// ErrUnavailable means no cache is configured or reachable.
	ErrUnavailable = errors.New("session cache unavailable")
	// ErrMiss means the token is not cached.
	ErrMiss = errors.New("session cache miss")
)

const keyPrefix = "authsession:"

type Log interface {
	Info(string, ...zapcore.Field)
}

type Cache struct {
	client *redis.Client
	log    Log
}

// NewCache connects to Redis, or returns nil when no address is
// configured.
func NewCache(addr func() string, log Log) *Cache {
	a := addr()
	if a == "" {
		log.Info("redis address not configured, session cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: a})

	return &Cache{client: client, log: log}
}

// Set caches a token with the remaining session lifetime as TTL.
func (c *Cache) Set(ctx context.Context, token, employeeID string, ttl time.Duration) error {
	if c == nil || ttl <= 0 {
		return ErrUnavailable
	}

	return c.client.Set(ctx, keyPrefix+token, employeeID, ttl).Err()
}

// Get resolves a cached token to an employee id.
func (c *Cache) Get(ctx context.Context, token string) (string, error) {
	if c == nil {
		return "", ErrUnavailable
	}

	v, err := c.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}

	return v, nil
}

// Delete drops a cached token, typically on logout.
func (c *Cache) Delete(ctx context.Context, token string) error {
	if c == nil {
		return ErrUnavailable
	}

	return c.client.Del(ctx, keyPrefix+token).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}

	return c.client.Close()
}
