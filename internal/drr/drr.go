// Package drr computes the daily run rate (DRR) per SKU from a raw sales
// table: total units sold, the single day count for the observed period, the
// resulting per-day rate, and the 30-day requirement derived from it.
package drr

import (
	"sort"

	"stockcover/internal/schema"
	"stockcover/internal/table"
)

// Row is the demand-rate result for one distinct SKU. DaysInPeriod is a
// run-wide scalar: every row of a run carries the same value.
type Row struct {
	SKU          string  `json:"SKU"`
	TotalSales   float64 `json:"Total Sales"`
	DaysInPeriod int     `json:"Days_in_period"`
	DRR          float64 `json:"DRR"`
	Requirement  float64 `json:"30day_requirement"`
}

// Options configure a demand-rate computation. Zero values take the
// defaults below.
type Options struct {
	// DefaultDays is used when no order-date column resolves or no date
	// parses. Default 30.
	DefaultDays int
	// RequirementDays is the projection window for the requirement column.
	// Default 30.
	RequirementDays float64
	// DateLayouts overrides table.DateLayouts for order-date parsing.
	DateLayouts []string
}

func (o Options) withDefaults() Options {
	if o.DefaultDays <= 0 {
		o.DefaultDays = 30
	}
	if o.RequirementDays <= 0 {
		o.RequirementDays = 30
	}
	if len(o.DateLayouts) == 0 {
		o.DateLayouts = table.DateLayouts
	}
	return o
}

// Stats is the soft-fail accounting for one computation.
type Stats struct {
	// BadQuantities counts sale-quantity cells that failed numeric coercion
	// and were treated as zero.
	BadQuantities int
	// BadDates counts order-date cells that failed to parse and were
	// ignored for the day count.
	BadDates int
	// DaysInPeriod is the resolved day count (distinct valid sale days, or
	// the default).
	DaysInPeriod int
	// DatedColumn is the actual order-date column used, empty when none
	// resolved.
	DatedColumn string
}

// Compute derives one Row per distinct SKU from the sales table.
//
// The SKU column resolves via alias list with first-column fallback; the
// quantity column falls back to a synthesized 1 per row; the date column is
// optional. Rows with a missing SKU group under the empty key rather than
// being dropped, and SKUs whose quantities all coerce to zero still produce a
// row with DRR 0. Output rows are ordered by SKU ascending so identical
// inputs render identically.
func Compute(sales table.Table, opt Options) ([]Row, Stats, error) {
	opt = opt.withDefaults()
	var stats Stats

	skuRes, err := schema.Resolve(sales, schema.SalesSKU)
	if err != nil {
		return nil, stats, schema.WithTable(err, "sales")
	}
	qtyRes, err := schema.Resolve(sales, schema.SalesQty)
	if err != nil {
		return nil, stats, schema.WithTable(err, "sales")
	}
	dateRes, err := schema.Resolve(sales, schema.SalesOrderDate)
	if err != nil {
		return nil, stats, schema.WithTable(err, "sales")
	}

	// Day count: distinct calendar days bearing a parsable date. Unparsable
	// cells are skipped; zero valid dates falls back to the default window.
	days := opt.DefaultDays
	if dateRes.Found {
		stats.DatedColumn = dateRes.Column
		seen := map[string]struct{}{}
		for _, row := range sales.Rows {
			v := dateRes.Value(row)
			if v == nil {
				continue
			}
			d, ok := table.ParseDate(v, opt.DateLayouts)
			if !ok {
				stats.BadDates++
				continue
			}
			seen[d.Format("2006-01-02")] = struct{}{}
		}
		if len(seen) > 0 {
			days = len(seen)
		}
	}
	stats.DaysInPeriod = days

	totals := map[string]float64{}
	order := []string{}
	for _, row := range sales.Rows {
		sku := table.AsString(skuRes.Value(row))
		qty, ok := table.ToFloat(qtyRes.Value(row))
		if !ok {
			// Quantity synthesized as a constant never fails; only real
			// cells count as anomalies.
			if qtyRes.Constant == nil {
				stats.BadQuantities++
			}
			qty = 0
		}
		if _, exists := totals[sku]; !exists {
			order = append(order, sku)
		}
		totals[sku] += qty
	}
	sort.Strings(order)

	rows := make([]Row, 0, len(order))
	for _, sku := range order {
		total := totals[sku]
		rate := total / float64(days)
		rows = append(rows, Row{
			SKU:          sku,
			TotalSales:   total,
			DaysInPeriod: days,
			DRR:          rate,
			Requirement:  rate * opt.RequirementDays,
		})
	}
	return rows, stats, nil
}
