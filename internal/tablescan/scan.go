package tablescan

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/kerlouan/fitbridge/internal/models"

	_ "modernc.org/sqlite"
)

// extractLimit bounds the exploratory scan per candidate table. Export
// databases can hold millions of sample rows in unindexed tables.
const extractLimit = 500

// A candidate table needs at least this many surviving rows to stay in
// the running; one or two parseable rows is noise.
const minExtractedRows = 3

// Scanner inspects an export SQLite database whose schema is unknown and
// pulls workouts out of the most plausible table.
type Scanner struct {
	db  *sql.DB
	log *slog.Logger

	// now is replaceable in tests; recency scoring depends on it.
	now func() time.Time
}

// Open opens the export database read-only.
func Open(path string, log *slog.Logger) (*Scanner, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening export db %s: %w", path, err)
	}
	return &Scanner{db: db, log: log, now: time.Now}, nil
}

// Close releases the read connection.
func (s *Scanner) Close() error {
	return s.db.Close()
}

// Tables lists the user tables of the export database.
func (s *Scanner) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Columns lists the column names of one table.
func (s *Scanner) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("inspecting table %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             any
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// CollectWorkouts scores every table, extracts rows from each candidate,
// and returns the rows of the single best table. The final ranking
// weights the schema score by extracted row count and a recency bonus so
// data-rich, current tables beat stale decoys with pretty column names.
// An empty result with nil error means no table plausibly holds workouts.
func (s *Scanner) CollectWorkouts(ctx context.Context) ([]models.Workout, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return nil, err
	}

	var (
		best      []models.Workout
		bestScore int
		found     bool
	)

	for _, table := range tables {
		cols, err := s.Columns(ctx, table)
		if err != nil {
			return nil, err
		}

		cand, ok := BuildCandidate(table, cols)
		if !ok {
			continue
		}

		workouts, err := s.ExtractWorkouts(ctx, cand)
		if err != nil {
			return nil, err
		}
		if len(workouts) < minExtractedRows {
			s.log.Debug("candidate table too sparse",
				"table", table, "rows", len(workouts))
			continue
		}

		score := cand.Score + len(workouts)*3 + s.recencyBonus(workouts)
		s.log.Debug("candidate table scored",
			"table", table, "schema_score", cand.Score,
			"rows", len(workouts), "adjusted_score", score)

		if !found || score > bestScore {
			best, bestScore, found = workouts, score, true
		}
	}

	return best, nil
}

// ExtractWorkouts runs the bounded query for one candidate and converts
// its rows. Rows that fail conversion or plausibility are dropped, not
// errors.
func (s *Scanner) ExtractWorkouts(ctx context.Context, cand models.TableCandidate) ([]models.Workout, error) {
	selectCols := []string{quoteIdent(cand.StartCol)}
	if cand.EndCol != "" {
		selectCols = append(selectCols, quoteIdent(cand.EndCol))
	} else {
		selectCols = append(selectCols, quoteIdent(cand.DurCol))
	}
	if cand.TypeCol != "" {
		selectCols = append(selectCols, quoteIdent(cand.TypeCol))
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC LIMIT %d",
		strings.Join(selectCols, ", "), quoteIdent(cand.Table),
		quoteIdent(cand.StartCol), extractLimit)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("extracting from %s: %w", cand.Table, err)
	}
	defer rows.Close()

	now := s.now()
	var out []models.Workout

	for rows.Next() {
		cells := make([]any, len(selectCols))
		ptrs := make([]any, len(cells))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row of %s: %w", cand.Table, err)
		}

		if w, ok := rowToWorkout(cells, cand, now); ok {
			out = append(out, w)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", cand.Table, err)
	}

	sortWorkoutsDesc(out)
	return out, nil
}

func rowToWorkout(cells []any, cand models.TableCandidate, now time.Time) (models.Workout, bool) {
	start, ok := TimeFromCell(cells[0])
	if !ok || !PlausibleStart(start, now) {
		return models.Workout{}, false
	}

	var duration *time.Duration
	if cand.EndCol != "" {
		if end, ok := TimeFromCell(cells[1]); ok && end.After(start) {
			d := end.Sub(start)
			duration = &d
		}
	} else {
		if d, ok := DurationFromCell(cells[1]); ok {
			duration = &d
		}
	}
	if duration != nil && !PlausibleDuration(*duration) {
		return models.Workout{}, false
	}

	source := "db:" + cand.Table
	if cand.TypeCol != "" && len(cells) > 2 {
		if kind, ok := cells[2].(int64); ok {
			source = fmt.Sprintf("%s kind=%d", source, kind)
		}
	}

	return models.Workout{Start: start, Duration: duration, Source: source}, true
}

func (s *Scanner) recencyBonus(workouts []models.Workout) int {
	var maxStart time.Time
	for _, w := range workouts {
		if w.Start.After(maxStart) {
			maxStart = w.Start
		}
	}
	if maxStart.IsZero() {
		return 0
	}
	age := s.now().Sub(maxStart)
	switch {
	case age <= 7*24*time.Hour:
		return 25
	case age <= 30*24*time.Hour:
		return 10
	default:
		return 0
	}
}

func sortWorkoutsDesc(ws []models.Workout) {
	sort.Slice(ws, func(i, j int) bool { return ws[i].Start.After(ws[j].Start) })
}

// quoteIdent quotes an identifier for interpolation; table and column
// names come from the catalog itself, never from user input, but the
// export may contain names with quotes or spaces.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
