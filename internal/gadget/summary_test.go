package gadget

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kerlouan/fitbridge/internal/export"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec: %v", err)
	}
}

func summaryFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Gadgetbridge")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mustExec(t, db, `CREATE TABLE BASE_ACTIVITY_SUMMARY (
		_id INTEGER PRIMARY KEY,
		NAME TEXT,
		START_TIME INTEGER NOT NULL,
		END_TIME INTEGER NOT NULL,
		ACTIVITY_KIND INTEGER NOT NULL,
		BASE_LONGITUDE INTEGER,
		BASE_LATITUDE INTEGER,
		BASE_ALTITUDE INTEGER,
		GPX_TRACK TEXT,
		RAW_DETAILS_PATH TEXT,
		DEVICE_ID INTEGER NOT NULL,
		USER_ID INTEGER NOT NULL,
		SUMMARY_DATA TEXT,
		RAW_SUMMARY_DATA BLOB)`)

	start := time.Date(2026, 1, 29, 8, 0, 0, 0, time.UTC)
	mustExec(t, db, `INSERT INTO BASE_ACTIVITY_SUMMARY
		(NAME, START_TIME, END_TIME, ACTIVITY_KIND,
		 BASE_LONGITUDE, BASE_LATITUDE, BASE_ALTITUDE,
		 GPX_TRACK, RAW_DETAILS_PATH, DEVICE_ID, USER_ID,
		 SUMMARY_DATA, RAW_SUMMARY_DATA)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"Morning run", start.UnixMilli(), start.Add(45*time.Minute).UnixMilli(), 16,
		-15512340, 481123450, 35,
		"/storage/emulated/0/gadgetbridge/track.gpx",
		"/storage/emulated/0/gadgetbridge/raw_details_12.bin",
		1, 1,
		`{"distanceMeters":{"value":8100,"unit":"meters"}}`, []byte{0xde, 0xad})

	// Minimal row: everything optional left NULL, end before start.
	mustExec(t, db, `INSERT INTO BASE_ACTIVITY_SUMMARY
		(START_TIME, END_TIME, ACTIVITY_KIND, DEVICE_ID, USER_ID)
		VALUES (?, ?, ?, ?, ?)`,
		start.Add(-24*time.Hour).UnixMilli(), start.Add(-25*time.Hour).UnixMilli(), 0, 1, 1)

	return path
}

func openFixture(t *testing.T, path string) *Reader {
	t.Helper()
	r, err := Open(path, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestHasSummaryTable(t *testing.T) {
	r := openFixture(t, summaryFixture(t))
	ok, err := r.HasSummaryTable(context.Background())
	if err != nil || !ok {
		t.Fatalf("HasSummaryTable = %v, %v", ok, err)
	}
}

func TestHasSummaryTableAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	mustExec(t, db, `CREATE TABLE unrelated (x INTEGER)`)
	db.Close()

	r := openFixture(t, path)
	ok, err := r.HasSummaryTable(context.Background())
	if err != nil || ok {
		t.Fatalf("HasSummaryTable = %v, %v, want false", ok, err)
	}
}

func TestSummaries(t *testing.T) {
	r := openFixture(t, summaryFixture(t))

	summaries, err := r.Summaries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(summaries))
	}

	full := summaries[0]
	if full.Name == nil || *full.Name != "Morning run" {
		t.Errorf("name = %v", full.Name)
	}
	if want := time.Date(2026, 1, 29, 8, 0, 0, 0, time.UTC); !full.Start.Equal(want) {
		t.Errorf("start = %v, want %v", full.Start, want)
	}
	if full.ActivityKind != 16 {
		t.Errorf("kind = %d, want 16", full.ActivityKind)
	}
	if full.BaseLongitudeE7 == nil || *full.BaseLongitudeE7 != -15512340 {
		t.Errorf("longitude e7 = %v", full.BaseLongitudeE7)
	}
	if d := full.DurationOf(); d == nil || *d != 45*time.Minute {
		t.Errorf("duration = %v, want 45m", d)
	}
	if full.SummaryDataJSON == nil {
		t.Error("summary data should parse as JSON")
	}
	if len(full.RawSummaryData) != 2 {
		t.Errorf("raw summary = %d bytes, want 2", len(full.RawSummaryData))
	}

	minimal := summaries[1]
	if minimal.Name != nil || minimal.GPXTrackPath != nil || minimal.BaseLatitudeE7 != nil {
		t.Error("optional fields should stay nil")
	}
	if minimal.DurationOf() != nil {
		t.Error("end before start should give nil duration")
	}
}

func TestCollectWorkouts(t *testing.T) {
	r := openFixture(t, summaryFixture(t))

	workouts, err := r.CollectWorkouts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(workouts) != 2 {
		t.Fatalf("workouts = %d, want 2", len(workouts))
	}
	if workouts[0].Source != "db:BASE_ACTIVITY_SUMMARY kind=16" {
		t.Errorf("source = %q", workouts[0].Source)
	}
	if workouts[1].Duration != nil {
		t.Error("second workout should have unknown duration")
	}
}

func TestLoadRawDetails(t *testing.T) {
	root := t.TempDir()
	rawDir := filepath.Join(root, "files", "rawDetails")
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rawDir, "raw_details_12.bin"), []byte("blob"), 0o644); err != nil {
		t.Fatal(err)
	}
	b := &export.Bundle{Root: root}

	r := openFixture(t, summaryFixture(t))
	summaries, err := r.Summaries(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	r.LoadRawDetails(b, &summaries[0])
	if string(summaries[0].RawDetails) != "blob" {
		t.Errorf("raw details = %q", summaries[0].RawDetails)
	}

	// Missing reference and missing file are both quiet no-ops.
	r.LoadRawDetails(b, &summaries[1])
	if summaries[1].RawDetails != nil {
		t.Error("summary without a reference should stay empty")
	}
}
