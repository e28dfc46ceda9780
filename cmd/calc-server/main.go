// Command calc-server serves the calculus solver as a JSON API.
//
// Configuration comes from calcsolve.toml in the working directory, the
// calcsolve.<CALCSOLVE_ENV>.toml overlay, and CALCSOLVE_* variables.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	_ "go.uber.org/automaxprocs"

	"github.com/njchilds90/calcsolve"
	"github.com/njchilds90/calcsolve/internal/cache"
	"github.com/njchilds90/calcsolve/internal/config"
	"github.com/njchilds90/calcsolve/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	logger.Info(
		"calc-server starting",
		"addr", cfg.Server.Addr(),
		"env", cfg.Env(),
		"cache", cfg.Cache.Backend,
	)

	c, err := openCache(cfg.Cache, logger)
	if err != nil {
		logger.Error("cache open failed", "error", err)
		os.Exit(1)
	}

	solver := calcsolve.New(calcsolve.WithLogger(logger))
	srv := server.New(cfg, solver, c, logger)

	go func() {
		if err := srv.Listen(cfg.Server.Addr()); err != nil {
			logger.Error("server stopped", "error", err)
		}
	}()

	closeCache := func(context.Context) error { return c.Close() }

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeoutDuration(),
		map[string]gfshutdown.Operation{
			"http":  srv.Shutdown,
			"cache": closeCache,
		},
	)

	code := <-wait
	logger.Info("calc-server stopped", "code", code)
	os.Exit(code)
}

func openCache(cfg config.CacheConfig, logger *slog.Logger) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r, err := cache.DialRedis(ctx, cfg.RedisAddr, cfg.Prefix, cfg.TTLDuration())
		if err != nil {
			return nil, err
		}
		logger.Info("redis cache connected", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
		return r, nil
	case config.CacheNone:
		return cache.NewNoop(), nil
	default:
		return cache.NewMemory(cfg.TTLDuration(), cfg.MaxEntries), nil
	}
}
