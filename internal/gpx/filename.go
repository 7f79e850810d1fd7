// Package gpx extracts workout candidates from the GPX track files of an
// export bundle: a start timestamp from the file name and a duration or a
// full point sequence from the track body.
package gpx

import (
	"regexp"
	"strings"
	"time"
)

// Track files are named with an RFC3339 timestamp whose colons were
// replaced by underscores so the name is filesystem-safe, e.g.
// "2026-01-29T08_25_59+01_00 cycling.gpx".
var filenameTS = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}_\d{2}_\d{2}[+-]\d{2}_\d{2}`)

// StartFromFilename recovers the UTC start time embedded in a track file
// name. The second return is false when the name carries no parseable
// timestamp; that is advisory, never an error.
func StartFromFilename(name string) (time.Time, bool) {
	raw := filenameTS.FindString(name)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, strings.ReplaceAll(raw, "_", ":"))
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
