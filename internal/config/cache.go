package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvCacheBackend    = "CALCSOLVE_CACHE_BACKEND"
	EnvCacheRedisAddr  = "CALCSOLVE_CACHE_REDIS_ADDR"
	EnvCachePrefix     = "CALCSOLVE_CACHE_PREFIX"
	EnvCacheTTL        = "CALCSOLVE_CACHE_TTL"
	EnvCacheMaxEntries = "CALCSOLVE_CACHE_MAX_ENTRIES"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// CacheConfig selects and tunes the solve result cache.
type CacheConfig struct {
	Backend    string `toml:"backend"`
	RedisAddr  string `toml:"redis_addr"`
	Prefix     string `toml:"prefix"`
	TTL        string `toml:"ttl"`
	MaxEntries int    `toml:"max_entries"`
}

// TTLDuration returns TTL as a time.Duration.
func (c *CacheConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CacheConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *CacheConfig) Merge(overlay *CacheConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.RedisAddr != "" {
		c.RedisAddr = overlay.RedisAddr
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.MaxEntries != 0 {
		c.MaxEntries = overlay.MaxEntries
	}
}

func (c *CacheConfig) loadDefaults() {
	if c.Backend == "" {
		c.Backend = CacheMemory
	}
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.Prefix == "" {
		c.Prefix = "calcsolve:"
	}
	if c.TTL == "" {
		c.TTL = "1h"
	}
	if c.MaxEntries == 0 {
		c.MaxEntries = 10000
	}
}

func (c *CacheConfig) loadEnv() {
	if v := os.Getenv(EnvCacheBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvCacheRedisAddr); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv(EnvCachePrefix); v != "" {
		c.Prefix = v
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		c.TTL = v
	}
	if v := os.Getenv(EnvCacheMaxEntries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxEntries = n
		}
	}
}

func (c *CacheConfig) validate() error {
	switch c.Backend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("invalid backend: %q", c.Backend)
	}
	ttl, err := time.ParseDuration(c.TTL)
	if err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("invalid ttl: %s", c.TTL)
	}
	if c.MaxEntries < 1 {
		return fmt.Errorf("invalid max_entries: %d", c.MaxEntries)
	}
	return nil
}
