// Package store persists the consolidated master dataset as Parquet and
// records merge run history in a SQLite catalog.
package store

import (
	"context"
	"time"
)

// RunRecord summarizes one merge run for the catalog.
type RunRecord struct {
	ID          int64
	StartedAt   time.Time
	FinishedAt  time.Time
	InputDir    string
	OutputPath  string
	FilesFound  int
	FilesMerged int
	FilesFailed int
	Rows        int
	Symbols     int
	OutputBytes int64
}

// FileFailure is one skipped source file and the error that caused the skip.
type FileFailure struct {
	File  string
	Error string
}

// RunRecorder persists merge run history.
type RunRecorder interface {
	// RecordRun inserts a run and its per-file failures, returning the run ID.
	RecordRun(ctx context.Context, run RunRecord, failures []FileFailure) (int64, error)
}
