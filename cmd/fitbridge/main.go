// Command fitbridge lists the workouts found in a fitness-tracker
// export bundle, reconciling GPX track files against the export
// database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/kerlouan/fitbridge/internal/export"
	"github.com/kerlouan/fitbridge/internal/gadget"
	"github.com/kerlouan/fitbridge/internal/gpx"
	"github.com/kerlouan/fitbridge/internal/merge"
	"github.com/kerlouan/fitbridge/internal/models"
	"github.com/kerlouan/fitbridge/internal/tablescan"
)

func main() {
	path := flag.String("path", "", "path to export bundle: directory or zip (required)")
	count := flag.Int("count", 0, "print at most N workouts (0 = all)")
	details := flag.Bool("details", false, "print per-source collection stats")
	noDB := flag.Bool("no-db", false, "skip the export database")
	noGPX := flag.Bool("no-gpx", false, "skip GPX track files")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *path == "" {
		fmt.Fprintf(os.Stderr, "Usage: fitbridge -path /path/to/export [-count N] [-details] [-no-db] [-no-gpx]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	b, err := export.Open(*path)
	if err != nil {
		log.Error("failed to open export", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	ctx := context.Background()

	var lists [][]models.Workout

	if !*noGPX {
		workouts, stats, err := gpx.CollectWorkouts(b.Root, log)
		if err != nil {
			log.Error("gpx collection failed", "error", err)
			os.Exit(1)
		}
		if *details {
			log.Info("gpx tracks collected",
				"files", stats.FilesSeen,
				"workouts", len(workouts),
				"no_timestamp", stats.NoTimestamp,
				"empty", stats.EmptyFiles,
				"unreadable", stats.Unreadable,
				"duration_known", stats.DurationKnown,
				"duration_unknown", stats.DurationUnknown)
		}
		lists = append(lists, workouts)
	}

	if !*noDB {
		workouts, err := collectFromDatabase(ctx, b, log)
		if err != nil {
			log.Error("database collection failed", "error", err)
			os.Exit(1)
		}
		if *details {
			log.Info("database workouts collected", "workouts", len(workouts))
		}
		lists = append(lists, workouts)
	}

	merged := merge.Workouts(lists...)
	if len(merged) == 0 {
		log.Error("no workouts found in export", "path", *path)
		os.Exit(1)
	}

	if *count > 0 && len(merged) > *count {
		merged = merged[:*count]
	}

	for _, w := range merged {
		fmt.Printf("%s  %s  %s\n",
			w.Start.Format("2006-01-02 15:04:05"),
			models.FormatDuration(w.Duration),
			w.Source)
	}
}

// collectFromDatabase prefers the fixed-schema summary table and falls
// back to the exploratory scanner for unknown export layouts.
func collectFromDatabase(ctx context.Context, b *export.Bundle, log *slog.Logger) ([]models.Workout, error) {
	dbPath, ok := b.DatabasePath()
	if !ok {
		log.Debug("bundle has no export database")
		return nil, nil
	}

	reader, err := gadget.Open(dbPath, log)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	hasTable, err := reader.HasSummaryTable(ctx)
	if err != nil {
		return nil, err
	}
	if hasTable {
		return reader.CollectWorkouts(ctx)
	}

	log.Debug("no summary table, scanning schema", "db", dbPath)
	scanner, err := tablescan.Open(dbPath, log)
	if err != nil {
		return nil, err
	}
	defer scanner.Close()
	return scanner.CollectWorkouts(ctx)
}
