package gpx

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/kerlouan/fitbridge/internal/models"
)

// Stats counts what the collector saw while walking the files directory.
// Operators read these to judge export-bundle health, so they are part of
// the collector's contract rather than incidental logging.
type Stats struct {
	FilesSeen       int
	NoTimestamp     int
	EmptyFiles      int
	Unreadable      int
	DurationKnown   int
	DurationUnknown int
}

// CollectWorkouts walks the export bundle's files/ tree and produces one
// workout per track file whose name carries a start timestamp, sorted
// descending by start. A missing files/ directory yields an empty result.
// Per-file problems are counted and logged, never fatal.
func CollectWorkouts(exportDir string, log *slog.Logger) ([]models.Workout, Stats, error) {
	var stats Stats

	filesDir := filepath.Join(exportDir, "files")
	if _, err := os.Stat(filesDir); err != nil {
		return nil, stats, nil
	}

	var out []models.Workout

	err := filepath.WalkDir(filesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || filepath.Ext(path) != ".gpx" {
			return nil
		}

		name := filepath.Base(path)
		stats.FilesSeen++

		start, ok := StartFromFilename(name)
		if !ok {
			stats.NoTimestamp++
			log.Debug("track file name has no timestamp", "file", name)
			return nil
		}

		if info, err := d.Info(); err == nil && info.Size() == 0 {
			stats.EmptyFiles++
			log.Debug("empty track file", "file", name)
		}

		dur, err := TrackDuration(path)
		if err != nil {
			// Unreadable file: the start is still known from the name.
			stats.Unreadable++
			log.Warn("track file unreadable", "file", name, "error", err)
		}
		if dur != nil {
			stats.DurationKnown++
		} else {
			stats.DurationUnknown++
		}

		out = append(out, models.Workout{
			Start:    start,
			Duration: dur,
			Source:   "gpx:" + name,
		})
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walking %s: %w", filesDir, err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out, stats, nil
}
