package table

import (
	"math"
	"strings"
	"testing"
	"time"
)

/*
TestReadCSV_Basic verifies header capture, cell trimming, and that empty
cells become nil.
*/
func TestReadCSV_Basic(t *testing.T) {
	in := "SKU,Qty\nA1, 5\nB2,\n"
	tbl, stats, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got, want := len(tbl.Columns), 2; got != want {
		t.Fatalf("columns = %d, want %d", got, want)
	}
	if tbl.Columns[0] != "SKU" || tbl.Columns[1] != "Qty" {
		t.Fatalf("columns = %v", tbl.Columns)
	}
	if stats.Rows != 2 {
		t.Fatalf("stats.Rows = %d, want 2", stats.Rows)
	}
	if got := tbl.Rows[0]["Qty"]; got != "5" {
		t.Errorf("row 0 Qty = %v, want %q", got, "5")
	}
	if got := tbl.Rows[1]["Qty"]; got != nil {
		t.Errorf("row 1 Qty = %v, want nil", got)
	}
}

func TestReadCSV_StripsBOM(t *testing.T) {
	in := "\ufeffSKU,Qty\nA1,1\n"
	tbl, _, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Columns[0] != "SKU" {
		t.Fatalf("first column = %q, want %q", tbl.Columns[0], "SKU")
	}
}

/*
TestReadCSV_MisalignedRows verifies that short rows are padded with nil,
long rows are truncated to the header width, and both are counted.
*/
func TestReadCSV_MisalignedRows(t *testing.T) {
	in := "SKU,Qty,Warehouse\nA1,5\nB2,3,W1,extra\n"
	tbl, stats, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if stats.Misaligned != 2 {
		t.Fatalf("stats.Misaligned = %d, want 2", stats.Misaligned)
	}
	if got := tbl.Rows[0]["Warehouse"]; got != nil {
		t.Errorf("padded cell = %v, want nil", got)
	}
	if got := tbl.Rows[1]["Warehouse"]; got != "W1" {
		t.Errorf("truncated row Warehouse = %v, want %q", got, "W1")
	}
	if _, ok := tbl.Rows[1]["extra"]; ok {
		t.Errorf("truncated row kept an extra cell")
	}
}

func TestReadCSV_EmptyInput(t *testing.T) {
	if _, _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected an error for empty input")
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	tbl := New("SKU", "Cover")
	tbl.Append(Row{"SKU": "A1", "Cover": 2.5})
	tbl.Append(Row{"SKU": "B2", "Cover": math.Inf(1)})

	b, err := MarshalCSV(tbl)
	if err != nil {
		t.Fatalf("MarshalCSV: %v", err)
	}
	want := "SKU,Cover\nA1,2.5\nB2,inf\n"
	if string(b) != want {
		t.Fatalf("MarshalCSV = %q, want %q", b, want)
	}
}

func TestFormatCell(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "x", "x"},
		{"float", 1.25, "1.25"},
		{"float no trailing zeros", 10.0, "10"},
		{"pos inf", math.Inf(1), "inf"},
		{"neg inf", math.Inf(-1), "-inf"},
		{"int", 42, "42"},
		{"bool", true, "true"},
		{"time", time.Date(2024, 3, 9, 13, 0, 0, 0, time.UTC), "2024-03-09"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatCell(tc.in); got != tc.want {
				t.Errorf("FormatCell(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
