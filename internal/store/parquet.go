package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"nsemerge/internal/schema"
)

// MasterRecord is the Parquet schema for the consolidated master file.
// Pointer fields are optional columns; nil means null. Date is stored with
// the Parquet DATE logical type (days since the Unix epoch).
type MasterRecord struct {
	Date        *int32   `parquet:"Date,date"`
	Open        *float64 `parquet:"Open"`
	High        *float64 `parquet:"High"`
	Low         *float64 `parquet:"Low"`
	Close       *float64 `parquet:"Close"`
	Volume      *float64 `parquet:"Volume"`
	Series      *string  `parquet:"Series"`
	TotalTrades *float64 `parquet:"TOTAL_TRADES"`
	QtyPerTrade *float64 `parquet:"QTY_PER_TRADE"`
	DlvQty      *float64 `parquet:"DLV_QTY"`
	Symbol      string   `parquet:"SYMBOL"`
}

const secondsPerDay = 86400

// WriteMaster writes the full set of normalized rows to a single Parquet
// file at path, creating parent directories as needed.
func WriteMaster(path string, rows []schema.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	records := make([]MasterRecord, len(rows))
	for i, r := range rows {
		records[i] = recordFromRow(r)
	}

	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadMaster reads a master Parquet file back into normalized rows.
func ReadMaster(path string) ([]schema.Row, error) {
	records, err := parquet.ReadFile[MasterRecord](path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	rows := make([]schema.Row, len(records))
	for i, rec := range records {
		rows[i] = rowFromRecord(rec)
	}
	return rows, nil
}

func recordFromRow(r schema.Row) MasterRecord {
	return MasterRecord{
		Date:        daysFromTime(r.Date),
		Open:        r.Open,
		High:        r.High,
		Low:         r.Low,
		Close:       r.Close,
		Volume:      r.Volume,
		Series:      r.Series,
		TotalTrades: r.TotalTrades,
		QtyPerTrade: r.QtyPerTrade,
		DlvQty:      r.DlvQty,
		Symbol:      r.Symbol,
	}
}

func rowFromRecord(rec MasterRecord) schema.Row {
	return schema.Row{
		Date:        timeFromDays(rec.Date),
		Open:        rec.Open,
		High:        rec.High,
		Low:         rec.Low,
		Close:       rec.Close,
		Volume:      rec.Volume,
		Series:      rec.Series,
		TotalTrades: rec.TotalTrades,
		QtyPerTrade: rec.QtyPerTrade,
		DlvQty:      rec.DlvQty,
		Symbol:      rec.Symbol,
	}
}

func daysFromTime(t *time.Time) *int32 {
	if t == nil {
		return nil
	}
	d := int32(t.Unix() / secondsPerDay)
	return &d
}

func timeFromDays(d *int32) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Unix(int64(*d)*secondsPerDay, 0).UTC()
	return &t
}
