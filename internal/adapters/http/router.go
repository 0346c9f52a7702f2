package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/samirrijal/traveltip/internal/pkg/metrics"
)

const defaultRequestTimeout = 5 * time.Second

// SetupRoutes registers all REST and GraphQL routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	if deps.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.RateLimit,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
			},
		}))
	}

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	d := deps.RequestTimeout
	if d <= 0 {
		d = defaultRequestTimeout
	}
	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, d)
	}

	v1 := app.Group("/v1")
	v1.Get("/locations", withTimeout(ListLocationsHandler(deps)))
	v1.Post("/locations", withTimeout(CreateLocationHandler(deps)))
	v1.Get("/locations/:id", withTimeout(GetLocationHandler(deps)))
	v1.Patch("/locations/:id", withTimeout(UpdateLocationHandler(deps)))
	v1.Delete("/locations/:id", withTimeout(DeleteLocationHandler(deps)))

	v1.Get("/session/filter", GetFilterHandler(deps))
	v1.Put("/session/filter", PutFilterHandler(deps))
	v1.Get("/session/sort", GetSortHandler(deps))
	v1.Put("/session/sort", PutSortHandler(deps))

	v1.Get("/stats/rating", withTimeout(RatingStatsHandler(deps)))
	v1.Get("/stats/recency", withTimeout(RecencyStatsHandler(deps)))
	v1.Get("/dashboard", withTimeout(DashboardHandler(deps)))
	v1.Get("/distance", DistanceHandler(deps))
	v1.Get("/export.geojson", withTimeout(ExportGeoJSONHandler(deps)))

	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))
}
