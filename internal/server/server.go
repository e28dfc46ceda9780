// Package server exposes the solver over HTTP with fiber.
//
// Routes:
//
//	GET  /health
//	POST /api/v1/solve        {"question": "..."}
//	POST /api/v1/solve/batch  {"questions": ["...", ...]}
//	GET  /api/v1/cache/stats
//
// A question the solver cannot answer is still a 200 response whose body
// carries the structured error. Malformed requests get 400, and requests
// over the configured rate get 429.
package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/time/rate"

	"github.com/njchilds90/calcsolve"
	"github.com/njchilds90/calcsolve/internal/cache"
	"github.com/njchilds90/calcsolve/internal/config"
)

// Server wires a Solver and a Cache behind a fiber app.
type Server struct {
	app     *fiber.App
	solver  *calcsolve.Solver
	cache   cache.Cache
	limiter *rate.Limiter
	limits  config.LimitsConfig
	logger  *slog.Logger
}

func New(cfg *config.Config, solver *calcsolve.Solver, c cache.Cache, logger *slog.Logger) *Server {
	s := &Server{
		solver:  solver,
		cache:   c,
		limiter: rate.NewLimiter(rate.Limit(cfg.Limits.RequestsPerSecond), cfg.Limits.Burst),
		limits:  cfg.Limits,
		logger:  logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "calcsolve",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeoutDuration(),
		WriteTimeout:          cfg.Server.WriteTimeoutDuration(),
	})

	s.app.Use(requestID())
	s.app.Use(s.requestLogger())
	s.app.Use(recover.New())

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)

	api := s.app.Group("/api/v1", s.rateLimit())
	api.Post("/solve", s.solve)
	api.Post("/solve/batch", s.solveBatch)
	api.Get("/cache/stats", s.cacheStats)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("server listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		s.logger.Error("unhandled error", "error", err, "request_id", requestIDOf(c))
	}

	return c.Status(code).JSON(fiber.Map{
		"error":      message,
		"code":       code,
		"request_id": requestIDOf(c),
	})
}
