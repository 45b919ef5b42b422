package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"goinventory_api/config"
	"goinventory_api/internal/inventory/app"
	"goinventory_api/metrics"
	"goinventory_api/pkg/dbconnect/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	configPath := flag.String("config", "config.yaml", "path to the application config")
	status := flag.String("status", "active", "product status filter for the matching run")
	mode := flag.String("mode", "group", "matching mode: group (all channels) or pairwise (first two)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", *configPath, err)
	}
	if cfg.Postgres.Host == "" {
		cfg.Postgres = config.GetConfig()
	}

	go func() {
		http.Handle("/metrics", metrics.MetricsHandler())
		if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
			log.Printf("Metrics endpoint stopped: %v", err)
		}
	}()

	ctx := context.Background()
	connector := postgres.NewPgConnector(cfg.Postgres)
	server := app.NewInventoryServer(connector, cfg, os.Stdout)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("Failed to start inventory server: %v", err)
	}

	engine := server.Engine()

	// Merging only ever runs on confirmed matches from a review session,
	// never on raw matching output.
	state, err := engine.LoadProgress()
	if err != nil {
		log.Fatalf("Failed to load review progress: %v", err)
	}
	if len(state.ConfirmedMatches) > 0 {
		summary, err := engine.Merge(ctx, state.ConfirmedMatches, "scheduler")
		if err != nil {
			log.Fatalf("Merge run aborted: %v", err)
		}
		log.Printf("Merge run %s: %d merged, %d skipped, %d conflicts, %d failed",
			summary.RunID, summary.Merged, summary.Skipped, summary.Conflicts, summary.Failed)
		state.ConfirmedMatches = nil
		if err := engine.SaveProgress(state); err != nil {
			log.Fatalf("Failed to save review progress: %v", err)
		}
	}

	switch *mode {
	case "pairwise":
		chA, chB := cfg.ChannelList[0], cfg.ChannelList[1]
		pairs, err := engine.FindPairwiseMatches(ctx, *status, chA, chB, cfg.Matching.PairThreshold)
		if err != nil {
			log.Fatalf("Pairwise matching run failed: %v", err)
		}
		log.Printf("Found %d pair candidates between %s and %s for review",
			len(pairs), chA, chB)
	case "group":
		groups, err := engine.FindGroupMatches(ctx, *status, cfg.Matching.GroupThreshold)
		if err != nil {
			log.Fatalf("Group matching run failed: %v", err)
		}
		log.Printf("Found %d group candidates across %d channels for review",
			len(groups), len(cfg.ChannelList))
	default:
		log.Fatalf("Unknown matching mode %q", *mode)
	}
}
