package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ RunRecorder = (*Catalog)(nil)

// Catalog records merge run history in a SQLite database.
type Catalog struct {
	db *sql.DB
}

const catalogSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at   TEXT NOT NULL,
	finished_at  TEXT NOT NULL,
	input_dir    TEXT NOT NULL,
	output_path  TEXT NOT NULL,
	files_found  INTEGER NOT NULL,
	files_merged INTEGER NOT NULL,
	files_failed INTEGER NOT NULL,
	row_count    INTEGER NOT NULL,
	symbols      INTEGER NOT NULL,
	output_bytes INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS file_failures (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	file   TEXT NOT NULL,
	error  TEXT NOT NULL
);
`

// OpenCatalog opens (or creates) the run catalog at dbPath and ensures the
// schema exists.
func OpenCatalog(dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", dbPath, err)
	}
	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// RecordRun inserts a run and its per-file failures, returning the run ID.
func (c *Catalog) RecordRun(ctx context.Context, run RunRecord, failures []FileFailure) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning catalog tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			started_at, finished_at, input_dir, output_path,
			files_found, files_merged, files_failed, row_count, symbols, output_bytes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
		run.FinishedAt.UTC().Format("2006-01-02T15:04:05Z"),
		run.InputDir,
		run.OutputPath,
		run.FilesFound,
		run.FilesMerged,
		run.FilesFailed,
		run.Rows,
		run.Symbols,
		run.OutputBytes,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, f := range failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO file_failures (run_id, file, error) VALUES (?, ?, ?)`,
			id, f.File, f.Error,
		); err != nil {
			return 0, fmt.Errorf("inserting failure for %s: %w", f.File, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// RecentRuns returns the most recent runs, newest first, up to limit.
func (c *Catalog) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, input_dir, output_path,
		       files_found, files_merged, files_failed, row_count, symbols, output_bytes
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var started, finished string
		if err := rows.Scan(
			&r.ID, &started, &finished, &r.InputDir, &r.OutputPath,
			&r.FilesFound, &r.FilesMerged, &r.FilesFailed, &r.Rows, &r.Symbols, &r.OutputBytes,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = parseCatalogTime(started)
		r.FinishedAt = parseCatalogTime(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunFailures returns the per-file failures recorded for a run.
func (c *Catalog) RunFailures(ctx context.Context, runID int64) ([]FileFailure, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT file, error FROM file_failures WHERE run_id = ? ORDER BY file`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var failures []FileFailure
	for rows.Next() {
		var f FileFailure
		if err := rows.Scan(&f.File, &f.Error); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

func parseCatalogTime(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05Z", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
