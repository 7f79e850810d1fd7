package models

import (
	"testing"
	"time"
)

func durPtr(d time.Duration) *time.Duration { return &d }

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    *time.Duration
		want string
	}{
		{"nil is unknown", nil, "unknown"},
		{"zero", durPtr(0), "00:00:00"},
		{"seconds only", durPtr(45 * time.Second), "00:00:45"},
		{"minutes", durPtr(62 * time.Minute), "01:02:00"},
		{"full", durPtr(1*time.Hour + 2*time.Minute + 3*time.Second), "01:02:03"},
		{"negative uses absolute value", durPtr(-90 * time.Second), "00:01:30"},
		{"over a day", durPtr(25 * time.Hour), "25:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.want {
				t.Errorf("FormatDuration = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestE7ToDegrees(t *testing.T) {
	e7 := int64(-15512340)
	got := E7ToDegrees(&e7)
	if got == nil {
		t.Fatal("expected a value")
	}
	if *got != -1.551234 {
		t.Errorf("degrees = %v, want -1.551234", *got)
	}

	if E7ToDegrees(nil) != nil {
		t.Error("nil input should yield nil")
	}

	huge := int64(1) << 40
	if E7ToDegrees(&huge) != nil {
		t.Error("out-of-int32-range value should yield nil")
	}
}

func TestWorkoutSummaryDurationOf(t *testing.T) {
	start := time.Date(2026, 1, 29, 8, 0, 0, 0, time.UTC)

	s := WorkoutSummary{Start: start, End: start.Add(30 * time.Minute)}
	if d := s.DurationOf(); d == nil || *d != 30*time.Minute {
		t.Errorf("DurationOf = %v, want 30m", d)
	}

	s = WorkoutSummary{Start: start, End: start}
	if s.DurationOf() != nil {
		t.Error("equal start/end should have no duration")
	}

	s = WorkoutSummary{Start: start, End: start.Add(-time.Minute)}
	if s.DurationOf() != nil {
		t.Error("end before start should have no duration")
	}
}
