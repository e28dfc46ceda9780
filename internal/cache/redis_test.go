package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires Redis on localhost:6379; skipped otherwise.
const testRedisAddr = "localhost:6379"

func setupTestRedis(t *testing.T, prefix string) *Redis {
	t.Helper()

	ctx := context.Background()
	c, err := DialRedis(ctx, testRedisAddr, prefix, time.Minute)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	cleanupKeys(ctx, c.client, prefix+"*")
	t.Cleanup(func() {
		cleanupKeys(ctx, c.client, prefix+"*")
		c.Close()
	})
	return c
}

func cleanupKeys(ctx context.Context, client *redis.Client, pattern string) {
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
}

func TestRedis_GetSet(t *testing.T) {
	c := setupTestRedis(t, "calcsolve-test:")
	ctx := context.Background()

	var got answer
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := answer{Question: "differentiate x^2", Output: "2*x"}
	require.NoError(t, c.Set(ctx, "k", want))

	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	ttl, err := c.client.TTL(ctx, "calcsolve-test:k").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	s := c.Stats()
	assert.Equal(t, "redis", s.Backend)
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, -1, s.Entries)
}

func TestRedis_Ping(t *testing.T) {
	c := setupTestRedis(t, "calcsolve-ping:")
	assert.NoError(t, c.Ping(context.Background()))
}

func TestDialRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := DialRedis(ctx, "127.0.0.1:1", "x:", time.Minute)
	assert.Error(t, err)
}
