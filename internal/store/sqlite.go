package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
// Amounts are stored as decimal text so they read back exactly.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *slog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dsn string, logger *slog.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Debug("sqlite recorder opened", "dsn", dsn)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                   TEXT PRIMARY KEY,
			created_at           INTEGER NOT NULL,
			label                TEXT,
			return_model         TEXT,
			start_age            INTEGER,
			end_age              INTEGER,
			num_paths            INTEGER,
			seed                 INTEGER,
			success_rate         TEXT,
			median_ending_wealth TEXT,
			levels               TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,

		`CREATE TABLE IF NOT EXISTS ruin_probabilities (
			run_id      TEXT NOT NULL REFERENCES runs(id),
			age         INTEGER NOT NULL,
			probability TEXT NOT NULL,
			PRIMARY KEY (run_id, age)
		)`,

		`CREATE TABLE IF NOT EXISTS wealth_percentiles (
			run_id TEXT NOT NULL REFERENCES runs(id),
			age    INTEGER NOT NULL,
			col    INTEGER NOT NULL,
			value  TEXT NOT NULL,
			PRIMARY KEY (run_id, age, col)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

// RecordRun stores a run and its per-age detail in one transaction.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`INSERT INTO runs
		(id, created_at, label, return_model, start_age, end_age, num_paths, seed,
		 success_rate, median_ending_wealth, levels)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixNano(), run.Label, run.ReturnModel, run.StartAge, run.EndAge,
		run.NumPaths, run.Seed, run.SuccessRate.String(), run.MedianEndingWealth.String(),
		encodeLevels(run.Levels))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, p := range run.RuinByAge {
		if _, err := tx.Exec(`INSERT INTO ruin_probabilities (run_id, age, probability) VALUES (?, ?, ?)`,
			run.ID, p.Age, p.Probability.String()); err != nil {
			return fmt.Errorf("insert ruin probability: %w", err)
		}
	}
	for _, row := range run.Percentiles {
		for i, v := range row.Values {
			if _, err := tx.Exec(`INSERT INTO wealth_percentiles (run_id, age, col, value) VALUES (?, ?, ?, ?)`,
				run.ID, row.Age, i, v.String()); err != nil {
				return fmt.Errorf("insert percentile: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.Debug("run recorded", "id", run.ID, "paths", run.NumPaths)
	return nil
}

const runColumns = `id, created_at, label, return_model, start_age, end_age, num_paths, seed,
	success_rate, median_ending_wealth, levels`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*RunRecord, error) {
	var (
		run                     RunRecord
		created                 int64
		success, median, levels string
	)
	if err := s.Scan(&run.ID, &created, &run.Label, &run.ReturnModel, &run.StartAge, &run.EndAge,
		&run.NumPaths, &run.Seed, &success, &median, &levels); err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(0, created).UTC()
	var err error
	if run.SuccessRate, err = decimal.NewFromString(success); err != nil {
		return nil, fmt.Errorf("decode success rate: %w", err)
	}
	if run.MedianEndingWealth, err = decimal.NewFromString(median); err != nil {
		return nil, fmt.Errorf("decode median wealth: %w", err)
	}
	if run.Levels, err = decodeLevels(levels); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *SQLiteRecorder) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) LoadRun(id string) (*RunRecord, error) {
	run, err := scanRun(r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}

	if run.RuinByAge, err = r.loadRuin(id); err != nil {
		return nil, err
	}
	if run.Percentiles, err = r.loadPercentiles(id, run.Levels); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *SQLiteRecorder) loadRuin(id string) ([]domain.RuinProbability, error) {
	rows, err := r.db.Query(`SELECT age, probability FROM ruin_probabilities WHERE run_id = ? ORDER BY age`, id)
	if err != nil {
		return nil, fmt.Errorf("query ruin probabilities: %w", err)
	}
	defer rows.Close()

	var out []domain.RuinProbability
	for rows.Next() {
		var (
			p   domain.RuinProbability
			raw string
		)
		if err := rows.Scan(&p.Age, &raw); err != nil {
			return nil, fmt.Errorf("scan ruin probability: %w", err)
		}
		if p.Probability, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("decode ruin probability: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// loadPercentiles rebuilds the age rows; col indexes into the run's levels.
func (r *SQLiteRecorder) loadPercentiles(id string, levels []decimal.Decimal) ([]domain.PercentileRow, error) {
	rows, err := r.db.Query(`SELECT age, col, value FROM wealth_percentiles WHERE run_id = ? ORDER BY age, col`, id)
	if err != nil {
		return nil, fmt.Errorf("query percentiles: %w", err)
	}
	defer rows.Close()

	var out []domain.PercentileRow
	for rows.Next() {
		var (
			age, col int
			raw      string
		)
		if err := rows.Scan(&age, &col, &raw); err != nil {
			return nil, fmt.Errorf("scan percentile: %w", err)
		}
		if col < 0 || col >= len(levels) {
			return nil, fmt.Errorf("percentile column %d out of range for run %s", col, id)
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("decode percentile: %w", err)
		}
		if n := len(out); n == 0 || out[n-1].Age != age {
			out = append(out, domain.PercentileRow{Age: age, Values: make([]decimal.Decimal, len(levels))})
		}
		out[len(out)-1].Values[col] = v
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func encodeLevels(levels []decimal.Decimal) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

func decodeLevels(s string) ([]decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]decimal.Decimal, len(parts))
	for i, p := range parts {
		v, err := decimal.NewFromString(p)
		if err != nil {
			return nil, fmt.Errorf("decode level %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
