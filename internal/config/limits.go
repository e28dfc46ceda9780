package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvLimitsRequestsPerSecond = "CALCSOLVE_LIMITS_REQUESTS_PER_SECOND"
	EnvLimitsBurst             = "CALCSOLVE_LIMITS_BURST"
	EnvLimitsMaxBatch          = "CALCSOLVE_LIMITS_MAX_BATCH"
	EnvLimitsBatchWorkers      = "CALCSOLVE_LIMITS_BATCH_WORKERS"
)

// LimitsConfig bounds request rate and batch fan-out.
type LimitsConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	MaxBatch          int     `toml:"max_batch"`
	BatchWorkers      int     `toml:"batch_workers"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LimitsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *LimitsConfig) Merge(overlay *LimitsConfig) {
	if overlay.RequestsPerSecond != 0 {
		c.RequestsPerSecond = overlay.RequestsPerSecond
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
	if overlay.MaxBatch != 0 {
		c.MaxBatch = overlay.MaxBatch
	}
	if overlay.BatchWorkers != 0 {
		c.BatchWorkers = overlay.BatchWorkers
	}
}

func (c *LimitsConfig) loadDefaults() {
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 20
	}
	if c.Burst == 0 {
		c.Burst = 40
	}
	if c.MaxBatch == 0 {
		c.MaxBatch = 50
	}
	if c.BatchWorkers == 0 {
		c.BatchWorkers = 4
	}
}

func (c *LimitsConfig) loadEnv() {
	if v := os.Getenv(EnvLimitsRequestsPerSecond); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = f
		}
	}
	if v := os.Getenv(EnvLimitsBurst); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Burst = n
		}
	}
	if v := os.Getenv(EnvLimitsMaxBatch); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxBatch = n
		}
	}
	if v := os.Getenv(EnvLimitsBatchWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchWorkers = n
		}
	}
}

func (c *LimitsConfig) validate() error {
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("invalid requests_per_second: %v", c.RequestsPerSecond)
	}
	if c.Burst < 1 {
		return fmt.Errorf("invalid burst: %d", c.Burst)
	}
	if c.MaxBatch < 1 {
		return fmt.Errorf("invalid max_batch: %d", c.MaxBatch)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("invalid batch_workers: %d", c.BatchWorkers)
	}
	return nil
}
