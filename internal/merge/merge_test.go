package merge

import (
	"testing"
	"time"

	"github.com/kerlouan/fitbridge/internal/models"
)

func w(start time.Time, d *time.Duration, source string) models.Workout {
	return models.Workout{Start: start, Duration: d, Source: source}
}

func dur(d time.Duration) *time.Duration { return &d }

var base = time.Date(2026, 1, 29, 8, 0, 0, 0, time.UTC)

func TestWorkoutsDedupSameMinute(t *testing.T) {
	// Ten seconds apart: same bucket, the database row wins.
	fromDB := w(base, dur(45*time.Minute), "db:WorkoutSession")
	fromGPX := w(base.Add(10*time.Second), dur(44*time.Minute), "gpx:track.gpx")

	got := Workouts([]models.Workout{fromGPX}, []models.Workout{fromDB})
	if len(got) != 1 {
		t.Fatalf("merged = %d, want 1", len(got))
	}
	if got[0].Source != "db:WorkoutSession" {
		t.Errorf("winner = %q, want the database row", got[0].Source)
	}
}

func TestWorkoutsKnownDurationWins(t *testing.T) {
	unknown := w(base, nil, "db:WorkoutSession")
	known := w(base.Add(30*time.Second), dur(40*time.Minute), "gpx:track.gpx")

	got := Workouts([]models.Workout{unknown, known})
	if len(got) != 1 {
		t.Fatalf("merged = %d, want 1", len(got))
	}
	if got[0].Source != "gpx:track.gpx" {
		t.Errorf("winner = %q, want the track with a duration", got[0].Source)
	}
}

func TestWorkoutsTieKeepsLatestStart(t *testing.T) {
	// Both db, both with durations: neither is strictly better, so the
	// first workout in start-descending order survives. Feeding the
	// lists in either order must not change the winner.
	a := w(base, dur(30*time.Minute), "db:one")
	b := w(base.Add(5*time.Second), dur(31*time.Minute), "db:two")

	for _, lists := range [][][]models.Workout{
		{{a}, {b}},
		{{b}, {a}},
	} {
		got := Workouts(lists...)
		if len(got) != 1 || got[0].Source != "db:two" {
			t.Fatalf("tie should keep the latest-start workout, got %+v", got)
		}
	}
}

func TestWorkoutsDistinctMinutes(t *testing.T) {
	got := Workouts([]models.Workout{
		w(base, nil, "gpx:a.gpx"),
		w(base.Add(2*time.Minute), nil, "gpx:b.gpx"),
		w(base.Add(-time.Hour), nil, "gpx:c.gpx"),
	})
	if len(got) != 3 {
		t.Fatalf("merged = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Start.After(got[i-1].Start) {
			t.Errorf("not sorted descending at %d", i)
		}
	}
	if got[0].Source != "gpx:b.gpx" || got[2].Source != "gpx:c.gpx" {
		t.Errorf("order = %q %q %q", got[0].Source, got[1].Source, got[2].Source)
	}
}

func TestWorkoutsIdempotent(t *testing.T) {
	list := []models.Workout{
		w(base, dur(45*time.Minute), "db:WorkoutSession kind=1"),
		w(base.Add(-25*time.Hour), nil, "gpx:old.gpx"),
	}
	once := Workouts(list)
	twice := Workouts(once)
	if len(once) != len(twice) {
		t.Fatalf("idempotence broken: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if !once[i].Start.Equal(twice[i].Start) || once[i].Source != twice[i].Source {
			t.Errorf("workout %d changed across merges", i)
		}
	}
}

func TestWorkoutsEmpty(t *testing.T) {
	if got := Workouts(nil, []models.Workout{}); len(got) != 0 {
		t.Errorf("merged = %d, want 0", len(got))
	}
}

func TestBetter(t *testing.T) {
	known := w(base, dur(time.Hour), "gpx:a.gpx")
	unknown := w(base, nil, "db:t")
	db := w(base, dur(time.Hour), "db:t")

	if !Better(known, unknown) {
		t.Error("known duration should beat unknown")
	}
	if Better(unknown, known) {
		t.Error("unknown duration should not beat known")
	}
	if !Better(db, known) {
		t.Error("database source should beat track on equal duration knowledge")
	}
	if Better(known, db) {
		t.Error("track should not beat database source")
	}
}
