// Package cache is a small JSON cache on top of Redis. Cache failures are
// logged and never surface to callers of GetOrSet.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL applies when Set is called with a zero TTL.
	DefaultTTL = time.Hour
	scanBatch  = 100
)

// Cache stores JSON-encoded values under string keys.
type Cache struct {
	client *redis.Client
	logger *log.Logger
}

// New wraps an existing client.
func New(client *redis.Client, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Cache{client: client, logger: logger}
}

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       addr,
		Password:   password,
		DB:         db,
		MaxRetries: 3,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// Get decodes the value under key. A miss returns ok=false and no error.
func Get[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var zero T
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		c.logger.Printf("cache: invalid json for key=%s: %v", key, err)
		return zero, false, nil
	}
	return v, true, nil
}

// GetOrSet returns the cached value for key or computes it with factory and
// stores it for ttl. Factory errors are returned and nothing is cached.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, factory func(context.Context) (T, error)) (T, error) {
	v, ok, err := Get[T](ctx, c, key)
	if err != nil {
		c.logger.Printf("cache: read key=%s error=%v", key, err)
	}
	if ok {
		return v, nil
	}

	v, err = factory(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		c.logger.Printf("cache: write key=%s error=%v", key, err)
	}
	return v, nil
}

// Set stores value as JSON under key.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// DeletePattern removes every key matching a glob pattern, walking the
// keyspace with SCAN.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %s: %w", pattern, err)
	}
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		if err := c.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", pattern, err)
		}
	}
	return nil
}

// Invalidate drops everything cached for entity, including per-id entries.
func (c *Cache) Invalidate(ctx context.Context, entity, id string) error {
	patterns := []string{entity + ":*", entity + ":list:*"}
	if id != "" {
		patterns = append(patterns, entity+":"+id, entity+":"+id+":*")
	}
	var errs []error
	for _, p := range patterns {
		if err := c.DeletePattern(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush clears the selected Redis database.
func (c *Cache) Flush(ctx context.Context) error {
	return c.client.FlushDB(ctx).Err()
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
