// Package memory keeps locations in process memory. Nothing survives a restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/samirrijal/traveltip/internal/core/domain"
)

// LocationRepo implements ports.LocationRepository with a slice.
type LocationRepo struct {
	mu   sync.RWMutex
	locs []domain.Location
}

// NewLocationRepo creates a repo seeded with locs.
func NewLocationRepo(locs ...domain.Location) *LocationRepo {
	return &LocationRepo{locs: slices.Clone(locs)}
}

// LoadAll returns a copy of the stored locations.
func (r *LocationRepo) LoadAll(ctx context.Context) ([]domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.locs), nil
}

// SaveAll replaces the stored locations.
func (r *LocationRepo) SaveAll(ctx context.Context, locs []domain.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.locs = slices.Clone(locs)
	r.mu.Unlock()
	return nil
}
