package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stockcover/internal/config"
	"stockcover/internal/planner"
)

const salesCSV = `SKU,Sale Qty,Order Date
A,4,2024-03-01
A,16,2024-03-02
`

const stockCSV = `SKU,Warehouse Id,Live on Website
A,W1,5
`

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	sales := writeInput(t, dir, "sales.csv", salesCSV)
	stock := writeInput(t, dir, "stock.csv", stockCSV)

	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(dir, "out")

	if err := run(context.Background(), cfg, sales, stock, false); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{
		planner.SummaryFile, planner.WarehouseFile, planner.RefillFile, planner.ExcessFile,
	} {
		if _, err := os.Stat(filepath.Join(cfg.Output.Dir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

/*
Failures must surface as returned errors, never a direct exit: main flushes
the metrics backend after run comes back, and the sink's deferred Close
only fires on a normal return.
*/
func TestRun_MissingInputReturnsError(t *testing.T) {
	dir := t.TempDir()
	stock := writeInput(t, dir, "stock.csv", stockCSV)

	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(dir, "out")

	err := run(context.Background(), cfg, filepath.Join(dir, "nope.csv"), stock, false)
	if err == nil {
		t.Fatal("run with a missing sales file should fail")
	}
}

func TestRun_UnknownStoreKindReturnsError(t *testing.T) {
	dir := t.TempDir()
	sales := writeInput(t, dir, "sales.csv", salesCSV)
	stock := writeInput(t, dir, "stock.csv", stockCSV)

	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Store.Kind = "oracle"
	cfg.Store.DSN = "whatever"

	err := run(context.Background(), cfg, sales, stock, false)
	if err == nil {
		t.Fatal("run with an unregistered sink kind should fail")
	}
}
