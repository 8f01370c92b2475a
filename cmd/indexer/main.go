package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/appointly/appointly-api/internal/adapters/database"
	"github.com/appointly/appointly-api/internal/adapters/search"
	"github.com/appointly/appointly-api/internal/infrastructure/clients/postgres"
	"github.com/appointly/appointly-api/internal/infrastructure/clients/typesense"
	"github.com/appointly/appointly-api/pkg/config"
)

// Rebuilds the Typesense provider index from Postgres. Run once for a fresh
// node or on a repeat interval to heal drift from missed index-on-write
// updates.
func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	providerRepo := database.NewProviderAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Deleting providers collection before reindex")
		_, err := tsClient.Client().Collection(typesense.ProvidersCollection).Delete(ctx)
		if err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	adapter := search.NewTypesenseAdapter(tsClient)
	if err := adapter.InitSchema(ctx); err != nil {
		return err
	}

	const pageSize = 100
	indexed := 0
	for offset := 0; ; offset += pageSize {
		providers, err := providerRepo.List(ctx, "", pageSize, offset)
		if err != nil {
			return err
		}
		if len(providers) == 0 {
			break
		}
		for _, p := range providers {
			if err := adapter.IndexProvider(ctx, p); err != nil {
				log.Printf("Failed to index provider %s: %v", p.ID, err)
				continue
			}
			indexed++
		}
		if len(providers) < pageSize {
			break
		}
	}

	log.Printf("Indexed %d providers", indexed)
	return nil
}
