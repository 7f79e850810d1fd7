// Command fitbridge-ingest loads a fitness-tracker export bundle into
// PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/kerlouan/fitbridge/internal/config"
	"github.com/kerlouan/fitbridge/internal/export"
	"github.com/kerlouan/fitbridge/internal/ingest"
	"github.com/kerlouan/fitbridge/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	bundlePath := flag.String("path", "", "path to export bundle: directory or zip (required)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *bundlePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: fitbridge-ingest -config config.yaml -path /path/to/export\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	b, err := export.Open(*bundlePath)
	if err != nil {
		log.Error("failed to open export", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	ing := ingest.New(db, log, cfg.Ingest.LoadRawDetails)
	stats, err := ing.Ingest(ctx, b, *bundlePath)
	if err != nil {
		log.Error("ingest failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("ingest complete")
}

func printStats(log *slog.Logger, stats *ingest.Stats) {
	log.Info("ingest stats",
		"workouts_seen", stats.WorkoutsSeen,
		"workouts_inserted", stats.WorkoutsInserted,
		"workouts_updated", stats.WorkoutsUpdated,
		"points_inserted", stats.PointsInserted,
		"tracks_missing", stats.TracksMissing,
		"tracks_errored", stats.TracksErrored,
		"errors", stats.Errors,
	)
}
