// Package gadget reads the fixed-schema activity summary table found in
// Gadgetbridge export databases. Unlike the exploratory scanner it
// relies on known column names and types, so it can surface the full
// session record including coordinates, side-file paths, and summary
// JSON.
package gadget

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kerlouan/fitbridge/internal/export"
	"github.com/kerlouan/fitbridge/internal/models"

	_ "modernc.org/sqlite"
)

const summaryTable = "BASE_ACTIVITY_SUMMARY"

// Reader reads activity summaries from one export database.
type Reader struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens the export database read-only.
func Open(path string, log *slog.Logger) (*Reader, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening export db %s: %w", path, err)
	}
	return &Reader{db: db, log: log}, nil
}

// Close releases the read connection.
func (r *Reader) Close() error {
	return r.db.Close()
}

// HasSummaryTable reports whether the database carries the fixed-schema
// summary table. When it does not, callers fall back to the
// exploratory scanner.
func (r *Reader) HasSummaryTable(ctx context.Context) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`,
		summaryTable).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking for %s: %w", summaryTable, err)
	}
	return n > 0, nil
}

// Summaries reads every activity summary row, newest first. Timestamps
// in the table are epoch milliseconds.
func (r *Reader) Summaries(ctx context.Context) ([]models.WorkoutSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT NAME, START_TIME, END_TIME, ACTIVITY_KIND,
		       BASE_LONGITUDE, BASE_LATITUDE, BASE_ALTITUDE,
		       GPX_TRACK, RAW_DETAILS_PATH, DEVICE_ID, USER_ID,
		       SUMMARY_DATA, RAW_SUMMARY_DATA
		FROM BASE_ACTIVITY_SUMMARY
		ORDER BY START_TIME DESC`)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", summaryTable, err)
	}
	defer rows.Close()

	var out []models.WorkoutSummary
	for rows.Next() {
		var (
			name, gpxTrack, rawDetails, summaryData sql.NullString
			startMs, endMs                          int64
			kind, deviceID, userID                  int
			lonE7, latE7, altitude                  sql.NullInt64
			rawSummary                              []byte
		)
		if err := rows.Scan(&name, &startMs, &endMs, &kind,
			&lonE7, &latE7, &altitude,
			&gpxTrack, &rawDetails, &deviceID, &userID,
			&summaryData, &rawSummary); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", summaryTable, err)
		}

		s := models.WorkoutSummary{
			Name:            nullString(name),
			Start:           time.UnixMilli(startMs).UTC(),
			End:             time.UnixMilli(endMs).UTC(),
			ActivityKind:    kind,
			BaseLongitudeE7: nullInt64(lonE7),
			BaseLatitudeE7:  nullInt64(latE7),
			BaseAltitude:    nullInt64(altitude),
			GPXTrackPath:    nullString(gpxTrack),
			RawDetailsPath:  nullString(rawDetails),
			DeviceID:        deviceID,
			UserID:          userID,
			SummaryDataRaw:  nullString(summaryData),
			RawSummaryData:  rawSummary,
		}
		if s.SummaryDataRaw != nil && json.Valid([]byte(*s.SummaryDataRaw)) {
			s.SummaryDataJSON = json.RawMessage(*s.SummaryDataRaw)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LoadRawDetails reads the raw-details side file of a summary from the
// bundle, when the row references one. Missing side files are logged
// and skipped, not errors; exports routinely reference files that were
// purged from the device.
func (r *Reader) LoadRawDetails(b *export.Bundle, s *models.WorkoutSummary) {
	if s.RawDetailsPath == nil {
		return
	}
	path := b.RawDetailsPath(*s.RawDetailsPath)
	data, err := os.ReadFile(path)
	if err != nil {
		r.log.Warn("raw details side file unreadable",
			"path", path, "error", err)
		return
	}
	s.RawDetails = data
}

// CollectWorkouts reduces the summary rows to plain workouts for the
// listing path. The provenance tag carries the activity kind.
func (r *Reader) CollectWorkouts(ctx context.Context) ([]models.Workout, error) {
	summaries, err := r.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Workout, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, models.Workout{
			Start:    s.Start,
			Duration: s.DurationOf(),
			Source:   fmt.Sprintf("db:%s kind=%d", summaryTable, s.ActivityKind),
		})
	}
	return out, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
