package planner

import (
	"github.com/zeebo/xxh3"

	"stockcover/internal/table"
)

// FingerprintTable hashes a rendered table's CSV form. Two tables with the
// same columns, order, and cell renderings hash identically.
func FingerprintTable(t table.Table) uint64 {
	b, err := table.MarshalCSV(t)
	if err != nil {
		// MarshalCSV only fails on writer errors; a bytes.Buffer has none.
		return 0
	}
	return xxh3.Hash(b)
}

// Fingerprint hashes all four rendered output tables. Identical inputs must
// produce identical fingerprints across runs: the pipeline carries no hidden
// time-dependent state beyond its configured window constants.
func (r *Result) Fingerprint() uint64 {
	h := xxh3.New()
	for _, out := range r.Outputs() {
		b, err := table.MarshalCSV(out.Table)
		if err != nil {
			return 0
		}
		_, _ = h.Write([]byte(out.Name))
		_, _ = h.Write(b)
	}
	return h.Sum64()
}
