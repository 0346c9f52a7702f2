package ports

import (
	"context"

	"github.com/samirrijal/traveltip/internal/core/domain"
)

// LocationRepository is the persistence collaborator behind LocationService.
// It stores the whole collection keyed by id and must preserve slice order.
type LocationRepository interface {
	// LoadAll returns every stored location in saved order.
	LoadAll(ctx context.Context) ([]domain.Location, error)
	// SaveAll replaces the stored collection with locs.
	SaveAll(ctx context.Context, locs []domain.Location) error
}

// Pinger is implemented by repositories backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}
