package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/kerlouan/fitbridge/internal/models"
)

// pointBatchSize bounds the placeholder count of one insert statement.
const pointBatchSize = 500

// ReplacePoints swaps the stored track of a workout for the given
// points. The delete-then-insert runs in one transaction so a failed
// ingest never leaves a half-written track.
func (db *DB) ReplacePoints(ctx context.Context, workoutID int64, points []models.GeoPoint) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("starting points transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_points WHERE workout_id = $1`, workoutID); err != nil {
		return 0, fmt.Errorf("clearing points of workout %d: %w", workoutID, err)
	}

	var total int64
	for offset := 0; offset < len(points); offset += pointBatchSize {
		chunk := points[offset:min(offset+pointBatchSize, len(points))]

		query := `INSERT INTO workout_points (workout_id, idx, t, lat, lon, ele) VALUES `
		args := make([]any, 0, len(chunk)*6)
		valueStrings := make([]string, 0, len(chunk))

		for i, p := range chunk {
			base := i * 6
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6,
			))
			args = append(args, workoutID, p.Index, p.Time, p.Lat, p.Lon, p.Elevation)
		}

		query += strings.Join(valueStrings, ",")

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting points of workout %d: %w", workoutID, err)
		}
		total += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing points of workout %d: %w", workoutID, err)
	}
	return total, nil
}

// QueryPoints retrieves the stored track of a workout in index order.
func (db *DB) QueryPoints(ctx context.Context, workoutID int64) ([]models.GeoPoint, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT idx, t, lat, lon, ele FROM workout_points
		 WHERE workout_id = $1 ORDER BY idx`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying points of workout %d: %w", workoutID, err)
	}
	defer rows.Close()

	var out []models.GeoPoint
	for rows.Next() {
		var p models.GeoPoint
		if err := rows.Scan(&p.Index, &p.Time, &p.Lat, &p.Lon, &p.Elevation); err != nil {
			return nil, fmt.Errorf("scanning point: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
