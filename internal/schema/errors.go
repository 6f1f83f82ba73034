package schema

import "fmt"

// Error reports that a structurally required field could not be resolved even
// via its fallback policy. It is the only fatal condition the pipeline
// raises: per-cell coercion failures degrade to zero values instead.
type Error struct {
	// Field is the canonical field name that failed to resolve.
	Field string
	// Table names the offending input ("sales", "stock") when known.
	Table string
	// Detail explains why resolution failed.
	Detail string
}

func (e *Error) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("schema: cannot resolve %q in %s table: %s", e.Field, e.Table, e.Detail)
	}
	return fmt.Sprintf("schema: cannot resolve %q: %s", e.Field, e.Detail)
}

// WithTable returns a copy of err naming the input table, for callers that
// resolve several fields against the same table.
func WithTable(err error, tbl string) error {
	if e, ok := err.(*Error); ok && e.Table == "" {
		return &Error{Field: e.Field, Table: tbl, Detail: e.Detail}
	}
	return err
}
