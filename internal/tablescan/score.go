// Package tablescan infers which table of an export database holds
// workout sessions when the schema is unknown. Tables and columns are
// scored against small weighted vocabularies; all inference is
// best-effort and never fails the scan.
package tablescan

import (
	"strings"

	"github.com/kerlouan/fitbridge/internal/models"
)

// term is one weighted substring of a scoring vocabulary. Weights can be
// negative; the vocabularies are plain data so they can be tested on
// their own.
type term struct {
	Substr string
	Weight int
}

var tableTerms = []term{
	{"workout", 8},
	{"activity", 6},
	{"training", 6},
	{"sport", 5},
	{"session", 5},
	{"exercise", 4},
	{"run", 3},
	{"track", 2},
	{"sample", -4},
	{"samples", -4},
	{"raw", -3},
	{"debug", -4},
	{"log", -3},
}

var startTerms = []term{
	{"start", 6},
	{"begin", 4},
	{"time", 3},
}

var endTerms = []term{
	{"end", 6},
	{"stop", 4},
	{"finish", 4},
	{"time", 3},
}

var durationTerms = []term{
	{"duration", 8},
	{"elapsed", 5},
}

var typeTerms = []term{
	{"sport", 5},
	{"activity", 4},
	{"name", 2},
}

func scoreTerms(s string, vocab []term) int {
	total := 0
	for _, t := range vocab {
		if strings.Contains(s, t.Substr) {
			total += t.Weight
		}
	}
	return total
}

// ScoreTableName scores a table name for workout-ness. The sum can be
// negative for decoy tables (samples, logs, raw dumps).
func ScoreTableName(table string) int {
	return scoreTerms(strings.ToLower(table), tableTerms)
}

// ScoreStartColumn scores a column name as a workout start column.
func ScoreStartColumn(col string) int {
	c := strings.ToLower(col)
	s := scoreTerms(c, startTerms)
	if strings.Contains(c, "ts") || strings.Contains(c, "timestamp") {
		s += 4
	}
	if c == "timestamp" {
		s += 2
	}
	return s
}

// ScoreEndColumn scores a column name as a workout end column.
func ScoreEndColumn(col string) int {
	c := strings.ToLower(col)
	s := scoreTerms(c, endTerms)
	if strings.Contains(c, "ts") || strings.Contains(c, "timestamp") {
		s += 4
	}
	return s
}

// ScoreDurationColumn scores a column name as a duration column.
func ScoreDurationColumn(col string) int {
	c := strings.ToLower(col)
	s := scoreTerms(c, durationTerms)
	if strings.Contains(c, "total") && strings.Contains(c, "time") {
		s += 5
	}
	if strings.Contains(c, "moving") && strings.Contains(c, "time") {
		s += 4
	}
	if strings.HasSuffix(c, "_ms") {
		s += 3
	}
	if strings.HasSuffix(c, "_sec") || strings.HasSuffix(c, "_secs") {
		s += 3
	}
	return s
}

// ScoreTypeColumn scores a column name as an activity-type column.
func ScoreTypeColumn(col string) int {
	c := strings.ToLower(col)
	s := scoreTerms(c, typeTerms)
	if c == "type" {
		s += 5
	}
	return s
}

// bestColumn picks the column with the strictly highest positive score.
// Ties keep the first column encountered; no positive score means no
// column for the role.
func bestColumn(cols []string, score func(string) int) (string, bool) {
	best := ""
	bestScore := 0
	for _, c := range cols {
		if sc := score(c); sc > 0 && sc > bestScore {
			best, bestScore = c, sc
		}
	}
	return best, best != ""
}

// minCompositeScore rejects tables whose composite score is weak unless
// the table name itself scored positive. This keeps tables that merely
// have a column named "time" from becoming candidates.
const minCompositeScore = 6

// BuildCandidate scores one table and returns a candidate when the table
// plausibly holds workout sessions: it needs a start column plus an end
// or duration column, and a composite score that clears the floor.
func BuildCandidate(table string, cols []string) (models.TableCandidate, bool) {
	nameScore := ScoreTableName(table)

	startCol, ok := bestColumn(cols, ScoreStartColumn)
	if !ok {
		return models.TableCandidate{}, false
	}
	endCol, _ := bestColumn(cols, ScoreEndColumn)
	durCol, _ := bestColumn(cols, ScoreDurationColumn)
	if endCol == "" && durCol == "" {
		return models.TableCandidate{}, false
	}
	typeCol, _ := bestColumn(cols, ScoreTypeColumn)

	score := nameScore + ScoreStartColumn(startCol)
	if endCol != "" {
		score += ScoreEndColumn(endCol)
	}
	if durCol != "" {
		score += ScoreDurationColumn(durCol)
	}

	if score < minCompositeScore && nameScore <= 0 {
		return models.TableCandidate{}, false
	}

	return models.TableCandidate{
		Table:    table,
		StartCol: startCol,
		EndCol:   endCol,
		DurCol:   durCol,
		TypeCol:  typeCol,
		Score:    score,
	}, true
}
