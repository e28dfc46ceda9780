package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis server. Keys are stored under prefix
// and expire after ttl.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	stats  Stats
}

// NewRedis wraps an existing client. The caller keeps ownership of the
// client until Close.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, prefix string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedis(client, prefix, ttl), nil
}

func (c *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.stats.miss()
			return false, nil
		}
		c.stats.fail()
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.stats.fail()
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	c.stats.hit()
	return true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.stats.fail()
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.stats.fail()
		return fmt.Errorf("cache set error: %w", err)
	}

	c.stats.set()
	return nil
}

// Stats reports -1 entries; counting keys under the prefix would need a
// full SCAN.
func (c *Redis) Stats() StatsSnapshot { return c.stats.snapshot("redis", -1) }

// Ping checks if the Redis connection is healthy.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}
