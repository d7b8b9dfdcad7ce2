// One-shot tool: print statistics for an existing master Parquet file and,
// when a catalog is configured, the most recent merge runs.
//
// Usage:
//
//	go run cmd/nse-stats/main.go [-file Master_nse_data.parquet] [-symbols]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"nsemerge/internal/config"
	"nsemerge/internal/schema"
	"nsemerge/internal/store"
	"nsemerge/internal/util"
)

func main() {
	file := flag.String("file", "", "master parquet file (overrides config)")
	perSymbol := flag.Bool("symbols", false, "print per-symbol row counts and date ranges")
	runs := flag.Int("runs", 5, "number of recent catalog runs to show (0 disables)")
	flag.Parse()

	cfgPath := "config/nsemerge.yaml"
	if p := os.Getenv("NSEMERGE_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *file != "" {
		cfg.Output.Path = *file
	}

	logger := util.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	rows, err := store.ReadMaster(cfg.Output.Path)
	if err != nil {
		log.Fatalf("failed to read master file: %v", err)
	}

	printDatasetStats(cfg.Output.Path, rows)
	if *perSymbol {
		printSymbolTable(rows)
	}
	if *runs > 0 && cfg.Catalog.SQLitePath != "" {
		printRecentRuns(cfg.Catalog.SQLitePath, *runs)
	}
}

// symbolStats aggregates one symbol's rows.
type symbolStats struct {
	rows     int
	min, max *time.Time
}

func printDatasetStats(path string, rows []schema.Row) {
	symbols := make(map[string]struct{})
	var min, max *time.Time
	for _, r := range rows {
		symbols[r.Symbol] = struct{}{}
		min, max = extend(min, max, r.Date)
	}

	fmt.Printf("file:    %s\n", path)
	fmt.Printf("rows:    %d\n", len(rows))
	fmt.Printf("columns: %d\n", schema.NumColumns)
	fmt.Printf("symbols: %d\n", len(symbols))
	fmt.Printf("dates:   %s to %s\n", formatDate(min), formatDate(max))
}

func printSymbolTable(rows []schema.Row) {
	stats := make(map[string]*symbolStats)
	for _, r := range rows {
		s := stats[r.Symbol]
		if s == nil {
			s = &symbolStats{}
			stats[r.Symbol] = s
		}
		s.rows++
		s.min, s.max = extend(s.min, s.max, r.Date)
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tROWS\tFROM\tTO")
	for _, name := range names {
		s := stats[name]
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, s.rows, formatDate(s.min), formatDate(s.max))
	}
	tw.Flush()
}

func printRecentRuns(catalogPath string, limit int) {
	catalog, err := store.OpenCatalog(catalogPath)
	if err != nil {
		log.Fatalf("failed to open run catalog: %v", err)
	}
	defer catalog.Close()

	runs, err := catalog.RecentRuns(context.Background(), limit)
	if err != nil {
		log.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) == 0 {
		return
	}

	fmt.Println()
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tFILES\tFAILED\tROWS\tSYMBOLS\tBYTES")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.FilesMerged, r.FilesFailed, r.Rows, r.Symbols, r.OutputBytes)
	}
	tw.Flush()
}

func extend(min, max, d *time.Time) (*time.Time, *time.Time) {
	if d == nil {
		return min, max
	}
	if min == nil || d.Before(*min) {
		v := *d
		min = &v
	}
	if max == nil || d.After(*max) {
		v := *d
		max = &v
	}
	return min, max
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.Format(schema.DateLayout)
}
