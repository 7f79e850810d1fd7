package models

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration renders a duration as zero-padded HH:MM:SS, taken from
// the absolute value in whole seconds. A nil duration renders "unknown".
func FormatDuration(d *time.Duration) string {
	if d == nil {
		return "unknown"
	}
	secs := int64(math.Abs(d.Seconds()))
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// DurationSeconds returns the duration in whole seconds, clamped to the
// int32 range for storage in an int column.
func DurationSeconds(d time.Duration) int32 {
	secs := int64(math.Abs(d.Seconds()))
	if secs > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(secs)
}

// E7ToDegrees converts a 1e7-scaled integer coordinate to degrees.
// The device writes int32 coordinates; values outside that range are
// treated as absent.
func E7ToDegrees(e7 *int64) *float64 {
	if e7 == nil {
		return nil
	}
	if *e7 < math.MinInt32 || *e7 > math.MaxInt32 {
		return nil
	}
	deg := float64(*e7) / 1e7
	return &deg
}
