package models

import (
	"encoding/json"
	"time"
)

// Workout is a single workout record discovered in an export bundle,
// either from a GPX track file or from the export database.
type Workout struct {
	// Start is always UTC, regardless of how the source stored it.
	Start time.Time
	// Duration is nil when the source did not yield a usable end/duration.
	Duration *time.Duration
	// Source is a provenance tag, e.g. "gpx:<filename>" or "db:<table>".
	Source string
}

// HasDuration reports whether the workout carries a known duration.
func (w Workout) HasDuration() bool {
	return w.Duration != nil
}

// GeoPoint is one time-stamped position sample from a GPX track.
// Index values are assigned in parse order starting at 0.
type GeoPoint struct {
	Index     int       `json:"idx"`
	Time      time.Time `json:"time"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Elevation *float64  `json:"ele,omitempty"`
}

// TableCandidate is the outcome of scoring one database table as a
// potential workout-session table.
type TableCandidate struct {
	Table    string
	StartCol string
	// EndCol and DurCol are empty when no column scored positively for
	// the role. A candidate always has at least one of the two.
	EndCol  string
	DurCol  string
	TypeCol string
	Score   int
}

// WorkoutSummary is a row of the fixed-schema activity summary table,
// used by the ingest path when the export database has the known layout.
type WorkoutSummary struct {
	Name         *string
	Start        time.Time
	End          time.Time
	ActivityKind int

	// Base coordinates as recorded by the device: 1e7-scaled integers.
	BaseLongitudeE7 *int64
	BaseLatitudeE7  *int64
	BaseAltitude    *int64

	// Android-side paths recorded in the row; mapped into the export
	// file tree before use.
	GPXTrackPath   *string
	RawDetailsPath *string

	DeviceID int
	UserID   int

	SummaryDataRaw  *string
	SummaryDataJSON json.RawMessage

	RawSummaryData []byte
	// RawDetails is only populated when the ingest run requests side-file
	// loading; it can be large.
	RawDetails []byte
}

// DurationOf returns end-start when the end is after the start, else nil.
func (s WorkoutSummary) DurationOf() *time.Duration {
	if !s.End.After(s.Start) {
		return nil
	}
	d := s.End.Sub(s.Start)
	return &d
}
