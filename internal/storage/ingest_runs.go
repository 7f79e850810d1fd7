package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IngestRun records one pass over an export bundle.
type IngestRun struct {
	ID               uuid.UUID  `json:"id"`
	Source           string     `json:"source"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	WorkoutsSeen     int        `json:"workouts_seen"`
	WorkoutsInserted int        `json:"workouts_inserted"`
	WorkoutsUpdated  int        `json:"workouts_updated"`
	PointsInserted   int64      `json:"points_inserted"`
	Errors           int        `json:"errors"`
}

// StartIngestRun records the beginning of an ingest pass and returns
// its id.
func (db *DB) StartIngestRun(ctx context.Context, source string) (uuid.UUID, error) {
	id := uuid.New()
	if _, err := db.Pool.Exec(ctx,
		`INSERT INTO ingest_runs (id, source, started_at) VALUES ($1, $2, now())`,
		id, source); err != nil {
		return uuid.Nil, fmt.Errorf("starting ingest run: %w", err)
	}
	return id, nil
}

// FinishIngestRun records the outcome of an ingest pass.
func (db *DB) FinishIngestRun(ctx context.Context, run IngestRun) error {
	if _, err := db.Pool.Exec(ctx,
		`UPDATE ingest_runs SET finished_at = now(),
		 workouts_seen = $2, workouts_inserted = $3, workouts_updated = $4,
		 points_inserted = $5, errors = $6
		 WHERE id = $1`,
		run.ID, run.WorkoutsSeen, run.WorkoutsInserted, run.WorkoutsUpdated,
		run.PointsInserted, run.Errors); err != nil {
		return fmt.Errorf("finishing ingest run %s: %w", run.ID, err)
	}
	return nil
}

// RecentIngestRuns lists the latest ingest passes, newest first.
func (db *DB) RecentIngestRuns(ctx context.Context, limit int) ([]IngestRun, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, source, started_at, finished_at,
		 workouts_seen, workouts_inserted, workouts_updated, points_inserted, errors
		 FROM ingest_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ingest runs: %w", err)
	}
	defer rows.Close()

	var out []IngestRun
	for rows.Next() {
		var r IngestRun
		if err := rows.Scan(&r.ID, &r.Source, &r.StartedAt, &r.FinishedAt,
			&r.WorkoutsSeen, &r.WorkoutsInserted, &r.WorkoutsUpdated,
			&r.PointsInserted, &r.Errors); err != nil {
			return nil, fmt.Errorf("scanning ingest run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
