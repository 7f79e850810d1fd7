package tablescan

import (
	"testing"
	"time"
)

func TestTimeFromCellEpochUnits(t *testing.T) {
	tests := []struct {
		name     string
		in       int64
		wantSecs int64
	}{
		{"seconds", 1_700_000_000, 1_700_000_000},
		{"at millis threshold still seconds", 1_000_000_000_000, 1_000_000_000_000},
		{"just above millis threshold", 1_000_000_000_001, 1_000_000_000},
		{"milliseconds", 1_700_000_000_000, 1_700_000_000},
		{"at micros threshold still millis", 1_000_000_000_000_000, 1_000_000_000_000},
		{"just above micros threshold", 1_000_000_000_000_001, 1_000_000_000},
		{"microseconds", 1_700_000_000_000_000, 1_700_000_000},
		{"at nanos threshold still micros", 1_000_000_000_000_000_000, 1_000_000_000_000},
		{"just above nanos threshold", 1_000_000_000_000_000_001, 1_000_000_000},
		{"nanoseconds", 1_700_000_000_000_000_000, 1_700_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TimeFromCell(tt.in)
			if !ok {
				t.Fatalf("TimeFromCell(%d) rejected", tt.in)
			}
			want := time.Unix(tt.wantSecs, 0).UTC()
			if !got.Equal(want) {
				t.Errorf("TimeFromCell(%d) = %v, want %v", tt.in, got, want)
			}
		})
	}
}

func TestTimeFromCellRejectsNonPositive(t *testing.T) {
	for _, in := range []int64{0, -5} {
		if _, ok := TimeFromCell(in); ok {
			t.Errorf("TimeFromCell(%d) should be rejected", in)
		}
	}
}

func TestTimeFromCellRepresentations(t *testing.T) {
	want := time.Date(2026, 1, 29, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
	}{
		{"float epoch", float64(1769673600)},
		{"native time", time.Date(2026, 1, 29, 9, 0, 0, 0, time.FixedZone("", 3600))},
		{"rfc3339 text", "2026-01-29T08:00:00Z"},
		{"naive space layout", "2026-01-29 08:00:00"},
		{"naive t layout", "2026-01-29T08:00:00"},
		{"numeric text", "1769673600"},
		{"byte text", []byte("2026-01-29T08:00:00Z")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TimeFromCell(tt.in)
			if !ok {
				t.Fatalf("TimeFromCell(%v) rejected", tt.in)
			}
			if !got.Equal(want) {
				t.Errorf("TimeFromCell(%v) = %v, want %v", tt.in, got, want)
			}
		})
	}
}

func TestTimeFromCellGarbage(t *testing.T) {
	for _, in := range []any{nil, "yesterday", "", []byte{0xff, 0xfe}, true} {
		if _, ok := TimeFromCell(in); ok {
			t.Errorf("TimeFromCell(%v) should be rejected", in)
		}
	}
}

func TestDurationFromCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want time.Duration
		ok   bool
	}{
		{"small int is seconds", int64(45), 45 * time.Second, true},
		{"below millis cutoff", int64(999_999), 999_999 * time.Second, true},
		{"at millis cutoff", int64(1_000_000), 1000 * time.Second, true},
		{"large int is millis", int64(2_700_000), 45 * time.Minute, true},
		{"negative int", int64(-1), 0, false},
		{"float is fractional seconds", float64(12.5), 12500 * time.Millisecond, true},
		{"negative float", float64(-0.5), 0, false},
		{"numeric text", "45", 45 * time.Second, true},
		{"float text", "12.5", 12500 * time.Millisecond, true},
		{"byte text", []byte("90"), 90 * time.Second, true},
		{"garbage text", "soon", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DurationFromCell(tt.in)
			if ok != tt.ok {
				t.Fatalf("DurationFromCell(%v) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("DurationFromCell(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlausibleStart(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"recent", time.Date(2026, 1, 29, 8, 0, 0, 0, time.UTC), true},
		{"at floor", time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"before floor", time.Date(2009, 12, 31, 23, 59, 59, 0, time.UTC), false},
		{"one day ahead", now.Add(24 * time.Hour), true},
		{"too far ahead", now.Add(25 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlausibleStart(tt.start, now); got != tt.want {
				t.Errorf("PlausibleStart(%v) = %v, want %v", tt.start, got, tt.want)
			}
		})
	}
}

func TestPlausibleDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want bool
	}{
		{45 * time.Second, true},
		{30 * time.Second, true},
		{29 * time.Second, false},
		{24 * time.Hour, true},
		{24*time.Hour + time.Second, false},
		{90000 * time.Second, false},
	}
	for _, tt := range tests {
		if got := PlausibleDuration(tt.d); got != tt.want {
			t.Errorf("PlausibleDuration(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}
