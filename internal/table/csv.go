package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// ReadStats reports soft-fail accounting for a single CSV read.
type ReadStats struct {
	// Rows is the number of data rows returned.
	Rows int
	// Misaligned counts rows whose width differed from the header and were
	// padded or truncated to fit.
	Misaligned int
}

// ReadCSV parses delimited text from r into a Table. The first row is the
// header; remaining rows become data rows keyed by the header names.
//
// The reader is deliberately lenient, mirroring how real export files look in
// practice: a UTF-8 BOM on the first header cell is stripped, unescaped quotes
// are tolerated, leading spaces are dropped, and rows with the wrong field
// count are padded with empty cells or truncated to the header width instead
// of aborting the read. Cell values are trimmed strings; empty cells become
// nil so downstream coercion treats them as absent.
func ReadCSV(r io.Reader) (Table, ReadStats, error) {
	var stats ReadStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, stats, fmt.Errorf("read header: empty input")
	}
	if err != nil {
		return Table{}, stats, fmt.Errorf("read header: %w", err)
	}

	cols := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		cols[i] = strings.TrimSpace(h)
	}

	t := Table{Columns: cols}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, stats, fmt.Errorf("read row %d: %w", len(t.Rows)+2, err)
		}
		if len(rec) != len(cols) {
			stats.Misaligned++
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				v := strings.TrimSpace(rec[i])
				if v == "" {
					row[c] = nil
				} else {
					row[c] = v
				}
			} else {
				row[c] = nil
			}
		}
		t.Append(row)
	}
	stats.Rows = len(t.Rows)
	return t, stats, nil
}

// WriteCSV renders t as delimited text: a header row with the table's columns
// in order, then one line per row. Missing cells render as empty fields.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			rec[i] = FormatCell(row[c])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCSV renders t into a byte slice using WriteCSV.
func MarshalCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatCell renders a single cell value for delimited output. Floats use the
// shortest exact decimal form; an infinite value renders as "inf" (the
// zero-demand stock-cover convention). Nil renders as the empty field.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsInf(x, 1) {
			return "inf"
		}
		if math.IsInf(x, -1) {
			return "-inf"
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}
