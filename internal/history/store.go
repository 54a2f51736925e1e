// Package history persists per-run aggregate samples in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrUnknownRun is returned when a sample references a run that was never
// registered.
var ErrUnknownRun = errors.New("unknown run")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	points     INTEGER NOT NULL,
	spacing    REAL NOT NULL,
	time_step  REAL NOT NULL,
	config     TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS samples (
	run_id  TEXT NOT NULL REFERENCES runs(id),
	step    INTEGER NOT NULL,
	time    REAL NOT NULL,
	coffee  REAL NOT NULL,
	cup     REAL NOT NULL,
	air     REAL NOT NULL,
	min_t   REAL NOT NULL,
	max_t   REAL NOT NULL,
	energy  REAL NOT NULL,
	PRIMARY KEY (run_id, step)
);
`

// Run describes one simulation session.
type Run struct {
	ID       string
	Created  time.Time
	Points   int
	Spacing  float64
	TimeStep float64
	// Config is the YAML the session was built from.
	Config string
}

// Sample is the aggregate state of a run after Step steps.
type Sample struct {
	RunID  string
	Step   uint64
	Time   float64
	Coffee float64
	Cup    float64
	Air    float64
	Min    float64
	Max    float64
	Energy float64
}

// Store is a SQLite-backed history. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dsn (a file path or ":memory:") and
// applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// BeginRun registers a run. Samples can only be recorded for registered runs.
func (s *Store) BeginRun(ctx context.Context, r Run) error {
	if r.Created.IsZero() {
		r.Created = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, points, spacing, time_step, config) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Created.UnixNano(), r.Points, r.Spacing, r.TimeStep, r.Config)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", r.ID, err)
	}
	return nil
}

// Record stores one sample, replacing an earlier sample for the same step.
func (s *Store) Record(ctx context.Context, smp Sample) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, smp.RunID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to look up run %s: %w", smp.RunID, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRun, smp.RunID)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO samples (run_id, step, time, coffee, cup, air, min_t, max_t, energy)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		smp.RunID, int64(smp.Step), smp.Time, smp.Coffee, smp.Cup, smp.Air, smp.Min, smp.Max, smp.Energy)
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}
	return nil
}

// Samples returns the samples of a run ordered by step.
func (s *Store) Samples(ctx context.Context, runID string) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT step, time, coffee, cup, air, min_t, max_t, energy
		 FROM samples WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		smp := Sample{RunID: runID}
		var step int64
		if err := rows.Scan(&step, &smp.Time, &smp.Coffee, &smp.Cup, &smp.Air, &smp.Min, &smp.Max, &smp.Energy); err != nil {
			return nil, fmt.Errorf("failed to scan sample row: %w", err)
		}
		smp.Step = uint64(step)
		out = append(out, smp)
	}
	return out, rows.Err()
}

// Runs returns every registered run, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, points, spacing, time_step, config FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &created, &r.Points, &r.Spacing, &r.TimeStep, &r.Config); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		r.Created = time.Unix(0, created)
		out = append(out, r)
	}
	return out, rows.Err()
}
