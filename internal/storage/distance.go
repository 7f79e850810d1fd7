package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// RefreshDistances recomputes the per-workout distance view. The
// concurrent refresh keeps readers unblocked; it requires the unique
// index the migration creates.
func (db *DB) RefreshDistances(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx,
		`REFRESH MATERIALIZED VIEW CONCURRENTLY workout_distance_m`); err != nil {
		return fmt.Errorf("refreshing distance view: %w", err)
	}
	return nil
}

// WorkoutDistance returns the computed track distance of a workout in
// meters. The second return is false when the view holds no row for
// the workout, which happens for workouts without points or before the
// first refresh.
func (db *DB) WorkoutDistance(ctx context.Context, workoutID int64) (float64, bool, error) {
	var m float64
	err := db.Pool.QueryRow(ctx,
		`SELECT distance_m FROM workout_distance_m WHERE workout_id = $1`,
		workoutID).Scan(&m)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying distance of workout %d: %w", workoutID, err)
	}
	return m, true, nil
}

// WorkoutDistances returns the distances of many workouts in one round
// trip, keyed by workout id.
func (db *DB) WorkoutDistances(ctx context.Context, workoutIDs []int64) (map[int64]float64, error) {
	if len(workoutIDs) == 0 {
		return map[int64]float64{}, nil
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT workout_id, distance_m FROM workout_distance_m
		 WHERE workout_id = ANY($1)`, workoutIDs)
	if err != nil {
		return nil, fmt.Errorf("querying distances: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]float64, len(workoutIDs))
	for rows.Next() {
		var (
			id int64
			m  float64
		)
		if err := rows.Scan(&id, &m); err != nil {
			return nil, fmt.Errorf("scanning distance: %w", err)
		}
		out[id] = m
	}
	return out, rows.Err()
}
