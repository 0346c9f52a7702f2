package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/samirrijal/traveltip/internal/adapters/postgres"
	"github.com/samirrijal/traveltip/internal/adapters/sqlite"
	"github.com/samirrijal/traveltip/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate up")
	}

	cfg, err := config.Load("traveltip-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	switch os.Args[1] {
	case "up":
		if err := up(context.Background(), cfg); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func up(ctx context.Context, cfg *config.Config) error {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		repo, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
		fmt.Printf("OK  sqlite %s\n", cfg.Storage.SQLitePath)

	case config.BackendPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		fmt.Printf("OK  postgres %s/%s\n", cfg.Database.Host, cfg.Database.DBName)

	default:
		log.Printf("backend %s has no schema, nothing to do", cfg.Storage.Backend)
		return nil
	}

	log.Println("all migrations applied")
	return nil
}
