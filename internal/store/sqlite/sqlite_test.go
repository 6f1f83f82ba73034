package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"stockcover/internal/store"
)

/*
TestRoundTrip creates a table, bulk-inserts rows, and reads them back through
the underlying handle. SQLite is the sink used in tests precisely because it
needs no server.
*/
func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(ctx, filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer repo.Close()

	cols := []store.Column{
		{Name: "sku", SQLType: "TEXT"},
		{Name: "drr", SQLType: "REAL"},
	}
	if err := repo.EnsureTable(ctx, "stock_cover_summary", cols); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	// Creating an existing table is a no-op, not an error.
	if err := repo.EnsureTable(ctx, "stock_cover_summary", cols); err != nil {
		t.Fatalf("EnsureTable (again): %v", err)
	}

	rows := [][]any{
		{"A", 10.0},
		{"B", 1.5},
	}
	n, err := repo.InsertRows(ctx, "stock_cover_summary", []string{"sku", "drr"}, rows)
	if err != nil {
		t.Fatalf("InsertRows: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted %d rows, want 2", n)
	}

	var count int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "stock_cover_summary"`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	var drr float64
	if err := repo.db.QueryRowContext(ctx, `SELECT drr FROM "stock_cover_summary" WHERE sku = ?`, "A").Scan(&drr); err != nil {
		t.Fatalf("select: %v", err)
	}
	if drr != 10.0 {
		t.Fatalf("drr = %v, want 10", drr)
	}
}

func TestInsertRows_Empty(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(ctx, filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer repo.Close()

	n, err := repo.InsertRows(ctx, "missing_table", []string{"sku"}, nil)
	if err != nil {
		t.Fatalf("InsertRows: %v", err)
	}
	if n != 0 {
		t.Fatalf("n = %d, want 0", n)
	}
}

func TestRegisteredWithFactory(t *testing.T) {
	repo, err := store.New(context.Background(), store.Config{
		Kind: "sqlite",
		DSN:  filepath.Join(t.TempDir(), "results.db"),
	})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
