// Package simdb stores decoded sample sequences in sqlite so runs can be
// compared later.
package simdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/simview/internal/monitoring"
)

type DB struct {
	*sql.DB
}

// Run is one decoded record file.
type Run struct {
	Label        string
	SourcePath   string
	CreatedAt    time.Time
	LineCount    int
	FallbackRows int
	Samples      []int
}

// RunInfo describes a stored run without its samples.
type RunInfo struct {
	RunID        string
	Label        string
	SourcePath   string
	CreatedAt    time.Time
	LineCount    int
	FallbackRows int
	SampleCount  int
}

// Open opens the sqlite database at path and applies pending migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}

	d := &DB{db}
	if err := d.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}

	monitoring.Logf("initialized simview run database schema at %s", path)
	return d, nil
}

// RecordRun stores run and its samples in one transaction and returns the new run id.
func (db *DB) RecordRun(ctx context.Context, run Run) (string, error) {
	runID := uuid.NewString()
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin run insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sim_runs (run_id, label, source_path, created_unix_nanos, line_count, fallback_rows, sample_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, run.Label, run.SourcePath, created.UnixNano(), run.LineCount, run.FallbackRows, len(run.Samples))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sim_samples (run_id, position, value) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for i, v := range run.Samples {
		if _, err := stmt.ExecContext(ctx, runID, i, v); err != nil {
			return "", fmt.Errorf("failed to insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// Samples returns the stored samples of a run in position order.
func (db *DB) Samples(ctx context.Context, runID string) ([]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT value FROM sim_samples WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		samples = append(samples, v)
	}
	return samples, rows.Err()
}

// Runs lists stored runs, newest first.
func (db *DB) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, label, source_path, created_unix_nanos, line_count, fallback_rows, sample_count
		FROM sim_runs
		ORDER BY created_unix_nanos DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		var createdNanos int64
		if err := rows.Scan(&r.RunID, &r.Label, &r.SourcePath, &createdNanos, &r.LineCount, &r.FallbackRows, &r.SampleCount); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(0, createdNanos)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
