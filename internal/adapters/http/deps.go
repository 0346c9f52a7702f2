package http

import (
	"time"

	"github.com/samirrijal/traveltip/internal/core/ports"
	"github.com/samirrijal/traveltip/internal/core/usecases"
	"github.com/samirrijal/traveltip/internal/pkg/geospatial"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Locations *usecases.LocationService
	Query     *usecases.QueryService
	Stats     *usecases.StatsService
	Dashboard *usecases.DashboardService

	// Checks are pinged by /v1/ready, keyed by component name.
	Checks map[string]ports.Pinger

	DefaultUnit    geospatial.Unit
	RequestTimeout time.Duration
	RateLimit      int // requests per minute per IP; 0 disables
	Now            func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
