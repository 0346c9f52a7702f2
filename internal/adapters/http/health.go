package http

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler pings every configured backend and reports whether the store
// has loaded its records.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		var (
			mu     sync.Mutex
			checks = make(map[string]string)
			allOK  = true
			g      errgroup.Group
		)

		// Pings run concurrently; a failure is recorded, not propagated.
		for name, p := range deps.Checks {
			g.Go(func() error {
				result := "ok"
				if err := p.Ping(ctx); err != nil {
					result = "error: " + err.Error()
				}
				mu.Lock()
				defer mu.Unlock()
				checks[name] = result
				if result != "ok" {
					allOK = false
				}
				return nil
			})
		}
		_ = g.Wait()

		// The first load happens here if nothing has touched the store yet.
		if _, err := deps.Locations.List(ctx); err != nil {
			checks["store"] = "error: " + err.Error()
			allOK = false
		} else {
			checks["store"] = "ok"
		}

		status := "ready"
		code := fiber.StatusOK
		if !allOK {
			status = "not ready"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
