// Package ingest loads an export bundle into PostgreSQL: workout rows
// from the fixed-schema summary table, track points from the GPX side
// files, and a distance refresh at the end.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kerlouan/fitbridge/internal/export"
	"github.com/kerlouan/fitbridge/internal/gadget"
	"github.com/kerlouan/fitbridge/internal/gpx"
	"github.com/kerlouan/fitbridge/internal/models"
	"github.com/kerlouan/fitbridge/internal/storage"
)

// Stats tracks ingest progress.
type Stats struct {
	WorkoutsSeen     int
	WorkoutsInserted int
	WorkoutsUpdated  int
	PointsInserted   int64
	TracksMissing    int
	TracksErrored    int
	Errors           int
}

// Ingester loads export bundles into the database.
type Ingester struct {
	db             *storage.DB
	log            *slog.Logger
	loadRawDetails bool
	stats          Stats
}

// New creates a new Ingester.
func New(db *storage.DB, log *slog.Logger, loadRawDetails bool) *Ingester {
	return &Ingester{db: db, log: log, loadRawDetails: loadRawDetails}
}

// Ingest processes one opened bundle. Per-workout problems are logged
// and counted, never fatal; the pass only fails on database errors or
// when the bundle carries no readable summary table.
func (ing *Ingester) Ingest(ctx context.Context, b *export.Bundle, source string) (*Stats, error) {
	dbPath, ok := b.DatabasePath()
	if !ok {
		return &ing.stats, fmt.Errorf("bundle has no export database")
	}

	reader, err := gadget.Open(dbPath, ing.log)
	if err != nil {
		return &ing.stats, err
	}
	defer reader.Close()

	hasTable, err := reader.HasSummaryTable(ctx)
	if err != nil {
		return &ing.stats, err
	}
	if !hasTable {
		return &ing.stats, fmt.Errorf("export database has no activity summary table")
	}

	runID, err := ing.db.StartIngestRun(ctx, source)
	if err != nil {
		return &ing.stats, err
	}

	summaries, err := reader.Summaries(ctx)
	if err != nil {
		return &ing.stats, err
	}

	for _, s := range summaries {
		ing.stats.WorkoutsSeen++
		if err := ing.ingestSummary(ctx, b, reader, s); err != nil {
			return &ing.stats, err
		}
	}

	if ing.stats.PointsInserted > 0 {
		if err := ing.db.RefreshDistances(ctx); err != nil {
			ing.log.Warn("distance refresh failed", "error", err)
			ing.stats.Errors++
		}
	}

	run := storage.IngestRun{
		ID:               runID,
		WorkoutsSeen:     ing.stats.WorkoutsSeen,
		WorkoutsInserted: ing.stats.WorkoutsInserted,
		WorkoutsUpdated:  ing.stats.WorkoutsUpdated,
		PointsInserted:   ing.stats.PointsInserted,
		Errors:           ing.stats.Errors,
	}
	if err := ing.db.FinishIngestRun(ctx, run); err != nil {
		return &ing.stats, err
	}
	return &ing.stats, nil
}

func (ing *Ingester) ingestSummary(ctx context.Context, b *export.Bundle, reader *gadget.Reader, s models.WorkoutSummary) error {
	if ing.loadRawDetails {
		reader.LoadRawDetails(b, &s)
	}

	id, inserted, err := ing.db.UpsertWorkout(ctx, models.RowFromSummary(s))
	if err != nil {
		return err
	}
	if inserted {
		ing.stats.WorkoutsInserted++
	} else {
		ing.stats.WorkoutsUpdated++
	}

	if s.GPXTrackPath == nil {
		return nil
	}

	trackPath := b.TrackPath(*s.GPXTrackPath)
	if _, err := os.Stat(trackPath); err != nil {
		ing.log.Warn("track file missing from bundle",
			"workout_id", id, "path", trackPath)
		ing.stats.TracksMissing++
		return nil
	}

	points, err := gpx.ParsePoints(trackPath)
	if err != nil {
		ing.log.Warn("track file unparseable",
			"workout_id", id, "path", trackPath, "error", err)
		ing.stats.TracksErrored++
		ing.stats.Errors++
		return nil
	}
	if len(points) == 0 {
		return nil
	}

	n, err := ing.db.ReplacePoints(ctx, id, points)
	if err != nil {
		return err
	}
	ing.stats.PointsInserted += n
	return nil
}
