// Package sqlite persists locations to a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/samirrijal/traveltip/internal/core/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS locations (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	rate       INTEGER NOT NULL CHECK (rate BETWEEN 1 AND 5),
	lat        REAL NOT NULL,
	lng        REAL NOT NULL,
	address    TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_locations_position ON locations(position);
`

// LocationRepo implements ports.LocationRepository on SQLite.
type LocationRepo struct {
	db *sql.DB
}

// pragmas are applied by the driver to every pooled connection.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

// Open opens the database at path and configures WAL mode.
func Open(path string) (*LocationRepo, error) {
	db, err := sql.Open("sqlite", withPragmas(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	return &LocationRepo{db: db}, nil
}

func withPragmas(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// Migrate creates the schema if it does not exist.
func (r *LocationRepo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Ping checks the database file is reachable.
func (r *LocationRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *LocationRepo) Close() error {
	return r.db.Close()
}

// LoadAll returns every location in saved order.
func (r *LocationRepo) LoadAll(ctx context.Context) ([]domain.Location, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, rate, lat, lng, address, created_at, updated_at
		FROM locations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query locations: %w", err)
	}
	defer rows.Close()

	var out []domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Rate, &l.Geo.Lat, &l.Geo.Lng, &l.Geo.Address,
			&l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan location: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate locations: %w", err)
	}
	return out, nil
}

// SaveAll replaces the stored collection in one transaction.
func (r *LocationRepo) SaveAll(ctx context.Context, locs []domain.Location) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("sqlite: clear locations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO locations (id, position, name, rate, lat, lng, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range locs {
		if _, err := stmt.ExecContext(ctx, l.ID, i, l.Name, l.Rate, l.Geo.Lat, l.Geo.Lng, l.Geo.Address,
			l.CreatedAt, l.UpdatedAt); err != nil {
			return fmt.Errorf("sqlite: insert location %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}
