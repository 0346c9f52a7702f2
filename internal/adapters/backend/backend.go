// Package backend selects the location repository named by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/traveltip/internal/adapters/memory"
	"github.com/samirrijal/traveltip/internal/adapters/postgres"
	"github.com/samirrijal/traveltip/internal/adapters/sqlite"
	"github.com/samirrijal/traveltip/internal/adapters/valkey"
	"github.com/samirrijal/traveltip/internal/core/ports"
	"github.com/samirrijal/traveltip/internal/pkg/config"
)

// Store is an opened repository together with its health checks.
type Store struct {
	Repo   ports.LocationRepository
	Checks map[string]ports.Pinger
	close  func()
}

// Close releases the underlying connection. Safe to call on a memory store.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects to the configured backend. The sqlite schema is created on
// open since the file is local to the process; postgres expects cmd/migrate.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		slog.Warn("using in-memory storage; locations are lost on exit")
		return &Store{Repo: memory.NewLocationRepo(), Checks: map[string]ports.Pinger{}}, nil

	case config.BackendSQLite:
		repo, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		slog.Info("sqlite storage opened", "path", cfg.Storage.SQLitePath)
		return &Store{
			Repo:   repo,
			Checks: map[string]ports.Pinger{"sqlite": repo},
			close:  func() { _ = repo.Close() },
		}, nil

	case config.BackendPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			return nil, err
		}
		slog.Info("postgres storage connected", "host", cfg.Database.Host, "db", cfg.Database.DBName)
		return &Store{
			Repo:   postgres.NewLocationRepo(db),
			Checks: map[string]ports.Pinger{"postgres": db},
			close:  db.Close,
		}, nil

	case config.BackendValkey:
		repo, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Key)
		if err != nil {
			return nil, err
		}
		slog.Info("valkey storage connected", "addr", cfg.Valkey.Addr, "key", cfg.Valkey.Key)
		return &Store{
			Repo:   repo,
			Checks: map[string]ports.Pinger{"valkey": repo},
			close:  repo.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
