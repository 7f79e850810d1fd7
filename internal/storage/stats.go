package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored data.
type DataStats struct {
	TotalWorkouts  int64              `json:"total_workouts"`
	TotalPoints    int64              `json:"total_points"`
	EarliestStart  *time.Time         `json:"earliest_start"`
	LatestStart    *time.Time         `json:"latest_start"`
	WorkoutsByKind []WorkoutKindStat  `json:"workouts_by_kind"`
}

// WorkoutKindStat holds summary stats for a single activity kind.
type WorkoutKindStat struct {
	ActivityKind  int     `json:"activity_kind"`
	Count         int64   `json:"count"`
	TotalDuration float64 `json:"total_duration_sec"`
}

// GetDataStats returns aggregate statistics for the stored workouts.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(start_time), MAX(start_time) FROM workouts`,
	).Scan(&stats.TotalWorkouts, &stats.EarliestStart, &stats.LatestStart)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_points`,
	).Scan(&stats.TotalPoints)
	if err != nil {
		return nil, fmt.Errorf("counting points: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT activity_kind, COUNT(*), COALESCE(SUM(duration_sec), 0)
		 FROM workouts GROUP BY activity_kind ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("grouping workouts by kind: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s WorkoutKindStat
		if err := rows.Scan(&s.ActivityKind, &s.Count, &s.TotalDuration); err != nil {
			return nil, fmt.Errorf("scanning kind stat: %w", err)
		}
		stats.WorkoutsByKind = append(stats.WorkoutsByKind, s)
	}
	return stats, rows.Err()
}
