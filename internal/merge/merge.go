// Package merge reconciles workout lists that describe the same
// sessions from different sources. Workouts whose starts land in the
// same minute bucket are treated as duplicates.
package merge

import (
	"sort"
	"strings"

	"github.com/kerlouan/fitbridge/internal/models"
)

// bucket maps a workout to its one-minute dedup bucket.
func bucket(w models.Workout) int64 {
	u := w.Start.Unix()
	if u >= 0 {
		return u / 60
	}
	return (u - 59) / 60
}

// Better reports whether a should replace b as the representative of a
// bucket. A workout with a known duration beats one without; among
// equals, database rows beat track files because they carry richer
// session metadata.
func Better(a, b models.Workout) bool {
	if a.HasDuration() != b.HasDuration() {
		return a.HasDuration()
	}
	return strings.HasPrefix(a.Source, "db:") && !strings.HasPrefix(b.Source, "db:")
}

// Workouts merges any number of source lists into one deduplicated
// list sorted by start descending. The combined input is stably sorted
// by start before bucket insertion, so the result does not depend on
// the order the source lists are passed in. Within a bucket the first
// workout wins unless a later one is strictly better.
func Workouts(lists ...[]models.Workout) []models.Workout {
	var all []models.Workout
	for _, list := range lists {
		all = append(all, list...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Start.After(all[j].Start) })

	seen := make(map[int64]models.Workout)
	for _, w := range all {
		k := bucket(w)
		cur, ok := seen[k]
		if !ok || Better(w, cur) {
			seen[k] = w
		}
	}

	out := make([]models.Workout, 0, len(seen))
	for _, w := range seen {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out
}
