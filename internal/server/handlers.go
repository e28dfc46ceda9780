package server

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/njchilds90/calcsolve"
	"github.com/njchilds90/calcsolve/internal/cache"
)

type solveRequest struct {
	Question string `json:"question"`
}

type solveResponse struct {
	calcsolve.Result
	Text      string `json:"text"`
	Cached    bool   `json:"cached"`
	RequestID string `json:"request_id,omitempty"`
}

type batchRequest struct {
	Questions []string `json:"questions"`
}

type batchResponse struct {
	Results   []solveResponse `json:"results"`
	RequestID string          `json:"request_id"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) solve(c *fiber.Ctx) error {
	var req solveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resp := s.answer(c.UserContext(), req.Question)
	resp.RequestID = requestIDOf(c)
	return c.JSON(resp)
}

func (s *Server) solveBatch(c *fiber.Ctx) error {
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Questions) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "questions must not be empty")
	}
	if len(req.Questions) > s.limits.MaxBatch {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("at most %d questions per batch", s.limits.MaxBatch))
	}

	results := make([]solveResponse, len(req.Questions))

	g, gctx := errgroup.WithContext(c.UserContext())
	g.SetLimit(s.limits.BatchWorkers)
	for i, q := range req.Questions {
		i, q := i, q
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = s.answer(gctx, q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}

	return c.JSON(batchResponse{Results: results, RequestID: requestIDOf(c)})
}

func (s *Server) cacheStats(c *fiber.Ctx) error {
	return c.JSON(s.cache.Stats())
}

// answer is cache-aside around Solver.Solve. Cache failures are logged
// and otherwise ignored.
func (s *Server) answer(ctx context.Context, question string) solveResponse {
	key := cache.KeyFor(question)

	var res calcsolve.Result
	found, err := s.cache.Get(ctx, key, &res)
	if err != nil {
		s.logger.Warn("cache get failed", "key", key, "error", err)
	}
	if found {
		res.Question = question
		return solveResponse{Result: res, Text: res.String(), Cached: true}
	}

	res = s.solver.Solve(question)
	if err := s.cache.Set(ctx, key, res); err != nil {
		s.logger.Warn("cache set failed", "key", key, "error", err)
	}
	return solveResponse{Result: res, Text: res.String()}
}
