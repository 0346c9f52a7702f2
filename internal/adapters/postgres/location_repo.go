package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/traveltip/internal/core/domain"
)

// LocationRepo implements ports.LocationRepository with pgx.
type LocationRepo struct {
	db *DB
}

// NewLocationRepo creates a new LocationRepo.
func NewLocationRepo(db *DB) *LocationRepo {
	return &LocationRepo{db: db}
}

// LoadAll returns every location in saved order.
func (r *LocationRepo) LoadAll(ctx context.Context) ([]domain.Location, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, rate, lat, lng, address, created_at, updated_at
		FROM locations
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}

	locs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Location, error) {
		var l domain.Location
		err := row.Scan(&l.ID, &l.Name, &l.Rate, &l.Geo.Lat, &l.Geo.Lng, &l.Geo.Address,
			&l.CreatedAt, &l.UpdatedAt)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan locations: %w", err)
	}
	return locs, nil
}

// SaveAll replaces the stored collection in one transaction.
func (r *LocationRepo) SaveAll(ctx context.Context, locs []domain.Location) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("clear locations: %w", err)
	}

	for i, l := range locs {
		_, err := tx.Exec(ctx, `
			INSERT INTO locations (id, position, name, rate, lat, lng, address, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, l.ID, i, l.Name, l.Rate, l.Geo.Lat, l.Geo.Lng, l.Geo.Address, l.CreatedAt, l.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert location %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
