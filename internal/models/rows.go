package models

import (
	"encoding/json"
	"time"
)

// WorkoutRow is a workout as stored in PostgreSQL. Rows are keyed by
// (device_id, start_time); re-ingesting the same export updates in
// place instead of duplicating.
type WorkoutRow struct {
	ID           int64           `json:"id"`
	DeviceID     int             `json:"device_id"`
	UserID       int             `json:"user_id"`
	Name         *string         `json:"name,omitempty"`
	Start        time.Time       `json:"start_time"`
	End          time.Time       `json:"end_time"`
	DurationSec  *int32          `json:"duration_sec,omitempty"`
	ActivityKind int             `json:"activity_kind"`
	BaseLat      *float64        `json:"base_lat,omitempty"`
	BaseLon      *float64        `json:"base_lon,omitempty"`
	BaseAltitude *int64          `json:"base_altitude,omitempty"`
	GPXTrack     *string         `json:"gpx_track,omitempty"`
	Summary      json.RawMessage `json:"summary,omitempty"`
	RawSummary   []byte          `json:"-"`
	RawDetails   []byte          `json:"-"`
}

// RowFromSummary converts a fixed-schema summary into its database row.
func RowFromSummary(s WorkoutSummary) WorkoutRow {
	row := WorkoutRow{
		DeviceID:     s.DeviceID,
		UserID:       s.UserID,
		Name:         s.Name,
		Start:        s.Start,
		End:          s.End,
		ActivityKind: s.ActivityKind,
		BaseLat:      E7ToDegrees(s.BaseLatitudeE7),
		BaseLon:      E7ToDegrees(s.BaseLongitudeE7),
		BaseAltitude: s.BaseAltitude,
		GPXTrack:     s.GPXTrackPath,
		Summary:      s.SummaryDataJSON,
		RawSummary:   s.RawSummaryData,
		RawDetails:   s.RawDetails,
	}
	if d := s.DurationOf(); d != nil {
		sec := DurationSeconds(*d)
		row.DurationSec = &sec
	}
	return row
}
