package merge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nsemerge/internal/schema"
	"nsemerge/internal/store"
)

// progressEvery controls how often per-file progress is logged.
const progressEvery = 100

// maxLoggedFailures caps how many per-file failures are echoed to the log at
// the end of a run. All failures still reach the catalog.
const maxLoggedFailures = 5

// Options configures a merge run.
type Options struct {
	// InputDir is scanned (non-recursively) for *.csv files.
	InputDir string

	// OutputPath is the master Parquet file to write.
	OutputPath string

	// Logger receives progress and statistics. Required.
	Logger *slog.Logger

	// Recorder, when non-nil, receives the run summary and failures.
	Recorder store.RunRecorder
}

// FileError is one source file that was skipped and why.
type FileError struct {
	File string
	Err  error
}

// Result summarizes a completed merge run.
type Result struct {
	FilesFound  int
	FilesMerged int
	Failures    []FileError
	Rows        int
	Symbols     int
	MinDate     *time.Time
	MaxDate     *time.Time
	OutputPath  string
	OutputBytes int64
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Run executes the full merge: list input CSVs, parse each with the fixed
// schema, concatenate in file order, write one Parquet file, and report
// statistics. Individual file failures are skipped and recorded; the run
// fails only when there is no input or nothing could be parsed.
func Run(ctx context.Context, opts Options) (*Result, error) {
	log := opts.Logger
	res := &Result{
		OutputPath: opts.OutputPath,
		StartedAt:  time.Now().UTC(),
	}

	files, err := listCSVFiles(opts.InputDir)
	if err != nil {
		return nil, err
	}
	res.FilesFound = len(files)
	log.Info("scanning input folder", "dir", opts.InputDir, "csvFiles", len(files))

	if len(files) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", opts.InputDir)
	}

	var rows []schema.Row
	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileRows, err := ReadFile(filepath.Join(opts.InputDir, name))
		if err != nil {
			res.Failures = append(res.Failures, FileError{File: name, Err: err})
			log.Warn("skipping file", "file", name, "error", err)
			continue
		}
		rows = append(rows, fileRows...)
		res.FilesMerged++

		if (i+1)%progressEvery == 0 {
			log.Info("processing files", "done", i+1, "total", len(files))
		}
	}

	log.Info("processed files", "merged", res.FilesMerged, "failed", len(res.Failures))
	for i, f := range res.Failures {
		if i == maxLoggedFailures {
			break
		}
		log.Warn("failed file", "file", f.File, "error", f.Err)
	}

	if res.FilesMerged == 0 {
		return nil, fmt.Errorf("no valid files parsed from %s", opts.InputDir)
	}

	res.Rows = len(rows)
	res.Symbols, res.MinDate, res.MaxDate = summarize(rows)

	log.Info("writing master parquet", "path", opts.OutputPath, "rows", res.Rows)
	if err := store.WriteMaster(opts.OutputPath, rows); err != nil {
		return nil, err
	}

	info, err := os.Stat(opts.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s after write: %w", opts.OutputPath, err)
	}
	res.OutputBytes = info.Size()
	res.FinishedAt = time.Now().UTC()

	log.Info("merge complete",
		"rows", res.Rows,
		"columns", schema.NumColumns,
		"symbols", res.Symbols,
		"dateMin", formatDate(res.MinDate),
		"dateMax", formatDate(res.MaxDate),
		"outputBytes", res.OutputBytes,
	)

	if opts.Recorder != nil {
		if _, err := opts.Recorder.RecordRun(ctx, res.runRecord(opts.InputDir), res.fileFailures()); err != nil {
			// The merged file is already on disk; a catalog failure should
			// not fail the run.
			log.Warn("recording run in catalog failed", "error", err)
		}
	}

	return res, nil
}

// listCSVFiles returns the names of regular *.csv entries in dir, in
// directory-listing order.
func listCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}

// summarize computes the distinct symbol count and the min/max over
// non-null dates.
func summarize(rows []schema.Row) (symbols int, minDate, maxDate *time.Time) {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.Symbol] = struct{}{}
		if r.Date == nil {
			continue
		}
		if minDate == nil || r.Date.Before(*minDate) {
			d := *r.Date
			minDate = &d
		}
		if maxDate == nil || r.Date.After(*maxDate) {
			d := *r.Date
			maxDate = &d
		}
	}
	return len(seen), minDate, maxDate
}

func (r *Result) runRecord(inputDir string) store.RunRecord {
	return store.RunRecord{
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		InputDir:    inputDir,
		OutputPath:  r.OutputPath,
		FilesFound:  r.FilesFound,
		FilesMerged: r.FilesMerged,
		FilesFailed: len(r.Failures),
		Rows:        r.Rows,
		Symbols:     r.Symbols,
		OutputBytes: r.OutputBytes,
	}
}

func (r *Result) fileFailures() []store.FileFailure {
	if len(r.Failures) == 0 {
		return nil
	}
	failures := make([]store.FileFailure, len(r.Failures))
	for i, f := range r.Failures {
		failures[i] = store.FileFailure{File: f.File, Error: f.Err.Error()}
	}
	return failures
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.Format(schema.DateLayout)
}
