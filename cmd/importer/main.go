package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/traveltip/internal/adapters/backend"
	"github.com/samirrijal/traveltip/internal/core/domain"
	"github.com/samirrijal/traveltip/internal/core/usecases"
	"github.com/samirrijal/traveltip/internal/pkg/config"
	"github.com/samirrijal/traveltip/internal/pkg/logging"
)

func main() {
	demo := flag.Bool("demo", false, "import the built-in demo locations instead of a file")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: importer [-demo] [locations.json]")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load("traveltip-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	appLogger := logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)
	if err := checkBackend(cfg); err != nil {
		log.Fatal(err)
	}

	var batch []domain.Location
	switch {
	case *demo:
		batch = demoLocations(time.Now())
	case flag.NArg() == 1:
		batch, err = readFile(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	svc := usecases.NewLocationService(store.Repo, usecases.WithLogger(appLogger))
	imported, err := svc.Import(ctx, batch)
	if err != nil {
		log.Fatalf("import: %v", err)
	}

	slog.Info("import complete", "imported", len(imported), "backend", cfg.Storage.Backend)
}

// checkBackend rejects backends that do not outlive the process.
func checkBackend(cfg *config.Config) error {
	if cfg.Storage.Backend == config.BackendMemory {
		return fmt.Errorf("importer: storage.backend %q keeps nothing after exit; choose sqlite, postgres or valkey", cfg.Storage.Backend)
	}
	return nil
}

// readFile parses a JSON array of locations. Missing ids and timestamps are
// filled in by the store.
func readFile(path string) ([]domain.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var locs []domain.Location
	if err := json.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return locs, nil
}

// demoLocations is a small set spread across the rating and recency buckets.
func demoLocations(now time.Time) []domain.Location {
	at := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }
	day := 24 * time.Hour

	return []domain.Location{
		{Name: "Guggenheim Museum", Rate: 5,
			Geo:       domain.Geo{Lat: 43.2687, Lng: -2.9340, Address: "Abandoibarra Etorb. 2, Bilbao"},
			CreatedAt: at(3 * time.Hour), UpdatedAt: at(3 * time.Hour)},
		{Name: "Mercado de la Ribera", Rate: 4,
			Geo:       domain.Geo{Lat: 43.2570, Lng: -2.9236, Address: "Erribera Kalea, Bilbao"},
			CreatedAt: at(12 * day), UpdatedAt: at(2 * day)},
		{Name: "San Juan de Gaztelugatxe", Rate: 5,
			Geo:       domain.Geo{Lat: 43.4472, Lng: -2.7847, Address: "Bermeo, Bizkaia"},
			CreatedAt: at(90 * day), UpdatedAt: at(90 * day)},
		{Name: "Playa de la Concha", Rate: 4,
			Geo:       domain.Geo{Lat: 43.3178, Lng: -1.9867, Address: "Donostia-San Sebastián"},
			CreatedAt: at(200 * day), UpdatedAt: at(30 * day)},
		{Name: "Puente Colgante", Rate: 3,
			Geo:       domain.Geo{Lat: 43.3233, Lng: -3.0170, Address: "Getxo, Bizkaia"},
			CreatedAt: at(400 * day), UpdatedAt: at(400 * day)},
		{Name: "Mount Artxanda", Rate: 2,
			Geo:       domain.Geo{Lat: 43.2750, Lng: -2.9200, Address: "Bilbao"},
			CreatedAt: at(800 * day), UpdatedAt: at(800 * day)},
	}
}
