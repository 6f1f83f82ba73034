package filestore

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stockcover/internal/planner"
	"stockcover/internal/table"
)

func testOutputs() []planner.Output {
	t := table.New("SKU", "Qty")
	t.Append(table.Row{"SKU": "A", "Qty": 5.0})
	return []planner.Output{
		{Name: planner.SummaryFile, Table: t},
		{Name: planner.WarehouseFile, Table: t},
		{Name: planner.RefillFile, Table: t},
		{Name: planner.ExcessFile, Table: t},
	}
}

func TestWriteOutputsAndOpen(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.WriteOutputs(testOutputs()); err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}

	f, err := s.Open(planner.SummaryFile)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if got, want := string(b), "SKU,Qty\nA,5\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func TestWriteOutputs_RejectsUnknownName(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = s.WriteOutputs([]planner.Output{{Name: "surprise.csv"}})
	if err == nil {
		t.Fatal("expected an error for an unknown output name")
	}
}

/*
TestOpen_RejectsTraversal verifies that only the four result names open; a
path outside the directory never reaches the filesystem.
*/
func TestOpen_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(secret, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, name := range []string{"secret.txt", "../secret.txt", "..%2Fsecret.txt", ""} {
		if _, err := s.Open(name); err == nil {
			t.Errorf("Open(%q) succeeded, want error", name)
		}
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if _, err := New(dir); err != nil {
		t.Fatalf("New: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("Stat(%s) = %v, %v; want directory", dir, info, err)
	}
}

func TestWriteOutputs_Overwrites(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.WriteOutputs(testOutputs()); err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}

	second := table.New("SKU")
	second.Append(table.Row{"SKU": "B"})
	if err := s.WriteOutputs([]planner.Output{{Name: planner.SummaryFile, Table: second}}); err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}
	f, err := s.Open(planner.SummaryFile)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	b, _ := io.ReadAll(f)
	if !strings.Contains(string(b), "B") || strings.Contains(string(b), "Qty") {
		t.Fatalf("second write did not replace the file: %q", b)
	}
}
