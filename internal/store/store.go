// Package store persists rendered result tables into a SQL sink. It contains
// the storage-agnostic contract plus the dispatch between concrete backends;
// the backends themselves live in subpackages so database drivers never leak
// into the planning code.
package store

import (
	"context"
	"fmt"
	"strings"

	"stockcover/internal/planner"
)

// Config selects and configures a SQL sink.
type Config struct {
	// Kind selects the backend: "postgres" or "sqlite".
	Kind string `json:"kind"`
	// DSN is the backend connection string.
	DSN string `json:"dsn"`
	// TablePrefix is prepended to each result table name (e.g. "planning_").
	TablePrefix string `json:"table_prefix"`
	// AutoCreate creates missing result tables before inserting.
	AutoCreate bool `json:"auto_create_table"`
}

// Column describes one destination column for table creation.
type Column struct {
	Name    string
	SQLType string
}

// Repository is the minimal sink contract. Implementations must be safe for
// sequential use by one run; runs do not share repositories.
type Repository interface {
	// EnsureTable creates the table when it does not exist.
	EnsureTable(ctx context.Context, table string, cols []Column) error
	// InsertRows bulk-inserts rows aligned to the columns order, returning
	// the number of rows written.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	// Close releases the underlying connections.
	Close() error
}

// openFns maps backend kinds to constructors. Backends register themselves
// from their init functions via Register, keeping this package free of driver
// imports.
var openFns = map[string]func(ctx context.Context, cfg Config) (Repository, error){}

// Register installs a backend constructor under kind. Called from backend
// init functions.
func Register(kind string, open func(ctx context.Context, cfg Config) (Repository, error)) {
	openFns[kind] = open
}

// New opens the repository selected by cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	open, ok := openFns[kind]
	if !ok {
		return nil, fmt.Errorf("store: unknown kind %q", cfg.Kind)
	}
	return open(ctx, cfg)
}

// textColumns are output columns stored as text; every other output column is
// numeric. Day counts are integers; cover-days columns are floats and may
// hold +Inf, which both backends accept.
var textColumns = map[string]bool{
	"SKU":                   true,
	"Warehouse Id":          true,
	"Recommended Warehouse": true,
}

var integerColumns = map[string]bool{
	"Days_in_period": true,
}

// ColumnsFor maps an output table's columns onto SQL column definitions.
// Column names are normalized to snake_case identifiers.
func ColumnsFor(columns []string, realType, intType, textType string) []Column {
	out := make([]Column, len(columns))
	for i, c := range columns {
		typ := realType
		if integerColumns[c] {
			typ = intType
		}
		if textColumns[c] {
			typ = textType
		}
		out[i] = Column{Name: Ident(c), SQLType: typ}
	}
	return out
}

// Ident converts an output header into a safe snake_case SQL identifier,
// e.g. "Stock Cover Days (SKU level)" → "stock_cover_days_sku_level".
func Ident(s string) string {
	var b strings.Builder
	prev := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('_')
				prev = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// Save persists every output table of a run. Table names derive from the
// output file names with the prefix applied ("refill_recommendations" etc.).
// On the first error, saving stops; earlier tables stay written (sinks are
// append-only run logs, not transactional artifacts).
func Save(ctx context.Context, repo Repository, cfg Config, outputs []planner.Output) error {
	for _, out := range outputs {
		name := cfg.TablePrefix + strings.TrimSuffix(out.Name, ".csv")
		cols := make([]string, len(out.Table.Columns))
		for i, c := range out.Table.Columns {
			cols[i] = Ident(c)
		}
		rows := make([][]any, 0, len(out.Table.Rows))
		for _, r := range out.Table.Rows {
			row := make([]any, len(out.Table.Columns))
			for i, c := range out.Table.Columns {
				row[i] = r[c]
			}
			rows = append(rows, row)
		}
		if _, err := repo.InsertRows(ctx, name, cols, rows); err != nil {
			return fmt.Errorf("store: save %s: %w", name, err)
		}
	}
	return nil
}

// EnsureTables creates the destination tables for every output when
// cfg.AutoCreate is set.
func EnsureTables(ctx context.Context, repo Repository, cfg Config, outputs []planner.Output, realType, intType, textType string) error {
	if !cfg.AutoCreate {
		return nil
	}
	for _, out := range outputs {
		name := cfg.TablePrefix + strings.TrimSuffix(out.Name, ".csv")
		cols := ColumnsFor(out.Table.Columns, realType, intType, textType)
		if err := repo.EnsureTable(ctx, name, cols); err != nil {
			return fmt.Errorf("store: ensure %s: %w", name, err)
		}
	}
	return nil
}
