// Package schema resolves the variant column names found in raw sales and
// stock exports onto canonical logical fields. Matching is by ordered alias
// list; alias keys and actual headers are folded to lowercase ASCII with
// separators and diacritics removed before comparison, so "SKU ID", "sku_id"
// and "Sku-Id" all resolve alike.
//
// When no alias matches, each field declares its own fallback policy: a
// positional column (first, second, last), a synthesized constant applied to
// every row, or nothing at all. Resolution never guesses beyond the declared
// policy; a positional fallback that cannot apply (no columns, or no second
// column) is a SchemaError.
package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"stockcover/internal/table"
)

// Fallback selects what Resolve does when no alias matches.
type Fallback int

const (
	// FallbackNone leaves the field unresolved; the caller treats the field
	// as absent (e.g. order dates fall back to a fixed day count).
	FallbackNone Fallback = iota
	// FallbackFirstColumn resolves to the table's first column.
	FallbackFirstColumn
	// FallbackSecondColumn resolves to the table's second column, only when
	// one exists; otherwise the field stays unresolved.
	FallbackSecondColumn
	// FallbackLastColumn resolves to the table's last column.
	FallbackLastColumn
	// FallbackConstant synthesizes Spec.Constant for every row.
	FallbackConstant
)

// Spec declares one logical field: its canonical name, the accepted header
// aliases in priority order, and the fallback policy.
type Spec struct {
	Canonical string
	Aliases   []string
	Fallback  Fallback
	// Constant is the synthesized per-row value for FallbackConstant.
	Constant any
}

// Resolution is the outcome of matching a Spec against a table.
type Resolution struct {
	// Column is the actual column name to read; empty for constant or
	// unresolved fields.
	Column string
	// Constant is non-nil when every row takes a synthesized value.
	Constant any
	// ByFallback is true when the column came from a positional fallback
	// rather than an alias match.
	ByFallback bool
	// Found is false only when the field stays unresolved (FallbackNone, or
	// FallbackSecondColumn on a one-column table).
	Found bool
}

// Value reads the resolved field from a row.
func (r Resolution) Value(row table.Row) any {
	if !r.Found {
		return nil
	}
	if r.Constant != nil {
		return r.Constant
	}
	return row[r.Column]
}

// Resolve matches spec against the table's columns. Alias matches win in
// alias order; otherwise the declared fallback applies. The error is always a
// *Error and only occurs when a positional fallback is structurally
// impossible (first/last column of a column-less table).
func Resolve(t table.Table, spec Spec) (Resolution, error) {
	fold := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		k := foldKey(c)
		if _, dup := fold[k]; !dup {
			fold[k] = c
		}
	}
	for _, alias := range spec.Aliases {
		if col, ok := fold[foldKey(alias)]; ok {
			return Resolution{Column: col, Found: true}, nil
		}
	}

	switch spec.Fallback {
	case FallbackFirstColumn:
		if len(t.Columns) == 0 {
			return Resolution{}, &Error{Field: spec.Canonical, Detail: "no columns to fall back to"}
		}
		return Resolution{Column: t.Columns[0], ByFallback: true, Found: true}, nil
	case FallbackSecondColumn:
		if len(t.Columns) < 2 {
			return Resolution{}, nil
		}
		return Resolution{Column: t.Columns[1], ByFallback: true, Found: true}, nil
	case FallbackLastColumn:
		if len(t.Columns) == 0 {
			return Resolution{}, &Error{Field: spec.Canonical, Detail: "no columns to fall back to"}
		}
		return Resolution{Column: t.Columns[len(t.Columns)-1], ByFallback: true, Found: true}, nil
	case FallbackConstant:
		return Resolution{Constant: spec.Constant, ByFallback: true, Found: true}, nil
	default:
		return Resolution{}, nil
	}
}

// foldKey converts a header or alias into its comparison form: lowercase
// ASCII with diacritics decomposed and removed, and whitespace, underscores,
// hyphens and dots dropped entirely.
func foldKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '-' || r == '.' || r == ' ' || r == '\t':
			// separators are ignored for matching
		default:
			// drop anything else
		}
	}
	return b.String()
}
