// Package merge implements the one-shot consolidation of per-symbol daily
// CSV files into a single master Parquet dataset.
package merge

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"nsemerge/internal/schema"
)

// ReadFile parses one per-symbol daily CSV into normalized rows. Only the
// fixed base columns are kept; columns absent from the file are null for
// every row. Cell values are cast best effort with null coercion, so a
// malformed value never fails the file — only an unreadable header or a
// structurally broken CSV body does.
func ReadFile(path string) ([]schema.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may be ragged; projection handles the rest

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	// Map base column name → field index. Header cells are trimmed before
	// matching; the first occurrence of a duplicated name wins.
	idx := make(map[string]int, len(schema.BaseColumns))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if _, known := columnSet[name]; !known {
			continue
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	symbol := schema.SymbolFromFilename(filepath.Base(path))

	var rows []schema.Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		rows = append(rows, schema.Row{
			Date:        schema.ParseDate(field(rec, idx, schema.ColDate)),
			Open:        schema.ParseFloat(field(rec, idx, schema.ColOpen)),
			High:        schema.ParseFloat(field(rec, idx, schema.ColHigh)),
			Low:         schema.ParseFloat(field(rec, idx, schema.ColLow)),
			Close:       schema.ParseFloat(field(rec, idx, schema.ColClose)),
			Volume:      schema.ParseFloat(field(rec, idx, schema.ColVolume)),
			Series:      schema.ParseString(field(rec, idx, schema.ColSeries)),
			TotalTrades: schema.ParseFloat(field(rec, idx, schema.ColTotalTrades)),
			QtyPerTrade: schema.ParseFloat(field(rec, idx, schema.ColQtyPerTrade)),
			DlvQty:      schema.ParseFloat(field(rec, idx, schema.ColDlvQty)),
			Symbol:      symbol,
		})
	}
	return rows, nil
}

// columnSet is the base column set for header projection.
var columnSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(schema.BaseColumns))
	for _, c := range schema.BaseColumns {
		s[c] = struct{}{}
	}
	return s
}()

// field returns the raw cell for a column, or "" (a null sentinel) when the
// column is missing from the file or the row is too short.
func field(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}
