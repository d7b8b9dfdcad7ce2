// Package schema defines the fixed column set, value parsing, and null
// coercion rules for the consolidated NSE daily dataset.
package schema

import (
	"strconv"
	"strings"
	"time"
)

// Column names as they appear in source CSV headers and in the master
// Parquet file.
const (
	ColDate        = "Date"
	ColOpen        = "Open"
	ColHigh        = "High"
	ColLow         = "Low"
	ColClose       = "Close"
	ColVolume      = "Volume"
	ColSeries      = "Series"
	ColTotalTrades = "TOTAL_TRADES"
	ColQtyPerTrade = "QTY_PER_TRADE"
	ColDlvQty      = "DLV_QTY"
	ColSymbol      = "SYMBOL"
)

// BaseColumns lists the columns read from source files, in canonical order.
// SYMBOL is not part of the source files; it is derived from the filename.
var BaseColumns = []string{
	ColDate,
	ColOpen,
	ColHigh,
	ColLow,
	ColClose,
	ColVolume,
	ColSeries,
	ColTotalTrades,
	ColQtyPerTrade,
	ColDlvQty,
}

// NumColumns is the width of the master dataset: the base columns plus SYMBOL.
const NumColumns = 11

// DateLayout is the only date format accepted from source files.
const DateLayout = "2006-01-02"

// ---------------------------------------------------------------------------
// Row — one normalized record of the master dataset
// ---------------------------------------------------------------------------

// Row is a single normalized record. Nil pointers represent nulls; Symbol is
// always present because it is derived from the filename rather than parsed.
type Row struct {
	Date        *time.Time
	Open        *float64
	High        *float64
	Low         *float64
	Close       *float64
	Volume      *float64
	Series      *string
	TotalTrades *float64
	QtyPerTrade *float64
	DlvQty      *float64
	Symbol      string
}

// ---------------------------------------------------------------------------
// Value parsing with null coercion
// ---------------------------------------------------------------------------

// nullSentinels are cell values coerced to null before any type parsing.
var nullSentinels = map[string]struct{}{
	"nan":  {},
	"NaN":  {},
	"N/A":  {},
	"null": {},
	"":     {},
}

// IsNull reports whether the raw cell value is one of the null sentinels.
// Surrounding whitespace is ignored.
func IsNull(s string) bool {
	_, ok := nullSentinels[strings.TrimSpace(s)]
	return ok
}

// ParseFloat parses a cell into a float64. Null sentinels and unparseable
// values both yield nil; casting is best effort and never fails a row.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if _, null := nullSentinels[s]; null {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseDate parses a cell formatted as "2006-01-02" into a UTC time.
// Null sentinels and unparseable values yield nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if _, null := nullSentinels[s]; null {
		return nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// ParseString returns the cell as a string pointer, or nil for null
// sentinels. Non-sentinel values are kept verbatim.
func ParseString(s string) *string {
	if IsNull(s) {
		return nil
	}
	return &s
}

// SymbolFromFilename derives the SYMBOL value from a CSV file name: the
// ".csv" suffix is stripped and the remainder uppercased.
func SymbolFromFilename(name string) string {
	return strings.ToUpper(strings.TrimSuffix(name, ".csv"))
}
