package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kerlouan/fitbridge/internal/models"
)

// UpsertWorkout inserts a workout row or updates the existing row with
// the same (device_id, start_time) key. Returns the row id and whether
// a new row was created.
func (db *DB) UpsertWorkout(ctx context.Context, row models.WorkoutRow) (int64, bool, error) {
	var (
		id       int64
		inserted bool
	)
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO workouts (device_id, user_id, name, start_time, end_time, duration_sec,
		 activity_kind, base_lat, base_lon, base_altitude, gpx_track,
		 summary, raw_summary, raw_details)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		 ON CONFLICT (device_id, start_time) DO UPDATE SET
		   name = EXCLUDED.name,
		   end_time = EXCLUDED.end_time,
		   duration_sec = EXCLUDED.duration_sec,
		   activity_kind = EXCLUDED.activity_kind,
		   base_lat = EXCLUDED.base_lat,
		   base_lon = EXCLUDED.base_lon,
		   base_altitude = EXCLUDED.base_altitude,
		   gpx_track = EXCLUDED.gpx_track,
		   summary = EXCLUDED.summary,
		   raw_summary = EXCLUDED.raw_summary,
		   raw_details = COALESCE(EXCLUDED.raw_details, workouts.raw_details)
		 RETURNING id, (xmax = 0)`,
		row.DeviceID, row.UserID, row.Name, row.Start, row.End, row.DurationSec,
		row.ActivityKind, row.BaseLat, row.BaseLon, row.BaseAltitude, row.GPXTrack,
		row.Summary, row.RawSummary, row.RawDetails,
	).Scan(&id, &inserted)
	if err != nil {
		return 0, false, fmt.Errorf("upserting workout: %w", err)
	}
	return id, inserted, nil
}

// QueryWorkouts retrieves workouts in a time range, newest first.
func (db *DB) QueryWorkouts(ctx context.Context, start, end time.Time, limit int) ([]models.WorkoutRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, device_id, user_id, name, start_time, end_time, duration_sec,
		 activity_kind, base_lat, base_lon, base_altitude, gpx_track, summary
		 FROM workouts
		 WHERE start_time >= $1 AND start_time < $2
		 ORDER BY start_time DESC
		 LIMIT $3`,
		start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutRow
	for rows.Next() {
		var w models.WorkoutRow
		if err := rows.Scan(&w.ID, &w.DeviceID, &w.UserID, &w.Name, &w.Start, &w.End,
			&w.DurationSec, &w.ActivityKind, &w.BaseLat, &w.BaseLon, &w.BaseAltitude,
			&w.GPXTrack, &w.Summary); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetWorkout retrieves a single workout by id. Returns nil when the id
// does not exist.
func (db *DB) GetWorkout(ctx context.Context, id int64) (*models.WorkoutRow, error) {
	var w models.WorkoutRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, device_id, user_id, name, start_time, end_time, duration_sec,
		 activity_kind, base_lat, base_lon, base_altitude, gpx_track, summary
		 FROM workouts WHERE id = $1`, id,
	).Scan(&w.ID, &w.DeviceID, &w.UserID, &w.Name, &w.Start, &w.End,
		&w.DurationSec, &w.ActivityKind, &w.BaseLat, &w.BaseLon, &w.BaseAltitude,
		&w.GPXTrack, &w.Summary)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting workout %d: %w", id, err)
	}
	return &w, nil
}
