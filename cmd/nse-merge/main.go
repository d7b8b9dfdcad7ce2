// One-shot tool: merge per-symbol daily NSE CSVs into a single master
// Parquet file.
//
// Usage:
//
//	go run cmd/nse-merge/main.go [-input daily] [-output Master_nse_data.parquet]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nsemerge/internal/config"
	"nsemerge/internal/merge"
	"nsemerge/internal/store"
	"nsemerge/internal/util"
)

func main() {
	inputDir := flag.String("input", "", "folder with daily CSV files (overrides config)")
	outputPath := flag.String("output", "", "master parquet path (overrides config)")
	flag.Parse()

	cfgPath := "config/nsemerge.yaml"
	if p := os.Getenv("NSEMERGE_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *inputDir != "" {
		cfg.Input.Dir = *inputDir
	}
	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}

	// Dual logger: stdout + /tmp log file.
	logFileName := fmt.Sprintf("/tmp/nse-merge-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.Create(logFileName)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	w := io.MultiWriter(os.Stdout, logFile)
	logger := util.NewLogger(w, cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	var recorder store.RunRecorder
	if cfg.Catalog.SQLitePath != "" {
		catalog, err := store.OpenCatalog(cfg.Catalog.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open run catalog: %v", err)
		}
		defer catalog.Close()
		recorder = catalog
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting nse-merge",
		"input", cfg.Input.Dir,
		"output", cfg.Output.Path,
		"logFile", logFileName,
	)

	res, err := merge.Run(ctx, merge.Options{
		InputDir:   cfg.Input.Dir,
		OutputPath: cfg.Output.Path,
		Logger:     logger,
		Recorder:   recorder,
	})
	if err != nil {
		log.Fatalf("merge failed: %v", err)
	}

	logger.Info("nse-merge finished",
		"files", res.FilesMerged,
		"failed", len(res.Failures),
		"rows", res.Rows,
		"outputMB", fmt.Sprintf("%.2f", float64(res.OutputBytes)/(1024*1024)),
	)
}
