package tablescan

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Cell values come back from database/sql as int64, float64, string,
// []byte, time.Time, or nil depending on the column's declared affinity.
// Exports in the wild store timestamps every way imaginable, so each
// conversion tries the representations in a fixed order.

// Epoch-unit thresholds: integers above each bound are interpreted at the
// finer unit.
const (
	epochNanosAbove  = int64(1_000_000_000_000_000_000) // > 1e18: nanoseconds
	epochMicrosAbove = int64(1_000_000_000_000_000)     // > 1e15: microseconds
	epochMillisAbove = int64(1_000_000_000_000)         // > 1e12: milliseconds
)

// epochToUTC interprets an integer as an epoch value, inferring the unit
// from its magnitude. Non-positive values are rejected.
func epochToUTC(i int64) (time.Time, bool) {
	if i <= 0 {
		return time.Time{}, false
	}
	secs := i
	switch {
	case i > epochNanosAbove:
		secs = i / 1_000_000_000
	case i > epochMicrosAbove:
		secs = i / 1_000_000
	case i > epochMillisAbove:
		secs = i / 1_000
	}
	return time.Unix(secs, 0).UTC(), true
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, false
	}
	return int64(t), true
}

// TimeFromCell converts a raw cell value to a UTC timestamp. It accepts
// integer/float epoch values, RFC3339 text, two naive layouts assumed
// UTC, and numeric-string epochs.
func TimeFromCell(v any) (time.Time, bool) {
	switch x := v.(type) {
	case int64:
		return epochToUTC(x)
	case float64:
		i, ok := floatToInt64(x)
		if !ok {
			return time.Time{}, false
		}
		return epochToUTC(i)
	case time.Time:
		return x.UTC(), true
	case []byte:
		return timeFromString(string(x))
	case string:
		return timeFromString(x)
	default:
		return time.Time{}, false
	}
}

func timeFromString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return epochToUTC(i)
	}
	return time.Time{}, false
}

// Integer duration cells at or above this magnitude are milliseconds,
// below it seconds. A million seconds is eleven days; no workout column
// stores that.
const durationMillisAt = int64(1_000_000)

// DurationFromCell converts a raw cell value to a duration. Negative
// values are rejected; fractional seconds are converted via milliseconds.
func DurationFromCell(v any) (time.Duration, bool) {
	switch x := v.(type) {
	case int64:
		if x < 0 {
			return 0, false
		}
		if x >= durationMillisAt {
			return time.Duration(x) * time.Millisecond, true
		}
		return time.Duration(x) * time.Second, true
	case float64:
		return durationFromFloat(x)
	case []byte:
		return durationFromString(string(x))
	case string:
		return durationFromString(x)
	default:
		return 0, false
	}
}

func durationFromFloat(f float64) (time.Duration, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Signbit(f) {
		return 0, false
	}
	ms, ok := floatToInt64(math.Round(f * 1000))
	if !ok {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

func durationFromString(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return DurationFromCell(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return durationFromFloat(f)
	}
	return 0, false
}

// Rows before this floor are fitness-tracker prehistory and treated as
// decoded garbage.
var startFloor = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

// PlausibleStart reports whether a start time falls in the accepted
// window: not before 2010-01-01 UTC and at most one day in the future.
func PlausibleStart(t, now time.Time) bool {
	return !t.Before(startFloor) && !t.After(now.Add(24*time.Hour))
}

// PlausibleDuration reports whether a duration is inside the accepted
// window of 30 seconds to 24 hours, inclusive.
func PlausibleDuration(d time.Duration) bool {
	return d >= 30*time.Second && d <= 24*time.Hour
}
