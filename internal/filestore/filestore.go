// Package filestore writes rendered result CSVs into an output directory and
// serves them back for download. Only the four known result file names are
// ever written or opened, so requests cannot escape the directory.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"

	"stockcover/internal/planner"
	"stockcover/internal/table"
)

// Store is a directory of result CSVs.
type Store struct {
	dir string
}

// New creates the output directory when missing and returns the store.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir reports the output directory.
func (s *Store) Dir() string { return s.dir }

// allowed lists the file names the store will write or open.
var allowed = map[string]bool{
	planner.SummaryFile:   true,
	planner.WarehouseFile: true,
	planner.RefillFile:    true,
	planner.ExcessFile:    true,
}

// WriteOutputs renders every output table to its CSV file, replacing any
// previous run's files.
func (s *Store) WriteOutputs(outputs []planner.Output) error {
	for _, out := range outputs {
		if !allowed[out.Name] {
			return fmt.Errorf("filestore: unexpected output name %q", out.Name)
		}
		data, err := table.MarshalCSV(out.Table)
		if err != nil {
			return fmt.Errorf("filestore: render %s: %w", out.Name, err)
		}
		path := filepath.Join(s.dir, out.Name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("filestore: write %s: %w", out.Name, err)
		}
	}
	return nil
}

// Open opens a previously written result file by name. Names outside the
// fixed result set are rejected, which also blocks path traversal.
func (s *Store) Open(name string) (*os.File, error) {
	if !allowed[name] {
		return nil, fmt.Errorf("filestore: unknown result file %q", name)
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("filestore: open %s: %w", name, err)
	}
	return f, nil
}
