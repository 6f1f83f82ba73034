// Package recommend derives the two actionable tables from the stock-cover
// outputs: SKUs whose total stock cannot carry the refill window (with the
// quantity needed and a suggested destination warehouse), and warehouse
// positions holding more than the excess window of cover (with the surplus
// quantity).
package recommend

import (
	"math"

	"stockcover/internal/cover"
)

// Options configure recommendation thresholds. Zero values take the defaults.
type Options struct {
	// ExcessWindowDays is the cover-days threshold beyond which a warehouse
	// position counts as excess. Default 60.
	ExcessWindowDays float64
}

func (o Options) withDefaults() Options {
	if o.ExcessWindowDays <= 0 {
		o.ExcessWindowDays = 60
	}
	return o
}

// RefillRow flags a SKU whose total stock is below its requirement.
type RefillRow struct {
	SKU           string  `json:"SKU"`
	TotalSales    float64 `json:"Total Sales"`
	DRR           float64 `json:"DRR"`
	Requirement   float64 `json:"30day_requirement"`
	TotalFbfStock float64 `json:"Total FBF Stock"`
	// RequiredQty is the whole-unit top-up to reach the requirement,
	// rounded to the nearest unit and never negative.
	RequiredQty float64 `json:"Required Qty to reach 30d"`
	// Warehouse is the suggested destination: the SKU's warehouse holding
	// the most stock today, ties broken by first appearance. Empty when the
	// SKU has no stock rows at all.
	Warehouse string `json:"Recommended Warehouse"`
}

// ExcessRow flags one warehouse position holding more than the excess window
// of cover. Zero-demand positions are never excess: infinite cover is
// excluded by policy.
type ExcessRow struct {
	SKU         string     `json:"SKU"`
	WarehouseID string     `json:"Warehouse Id"`
	Live        float64    `json:"Live on Website"`
	DRR         float64    `json:"DRR"`
	CoverDays   cover.Days `json:"Stock Cover Days (Warehouse)"`
	// ExcessQty is the stock beyond the excess window, floored at zero.
	ExcessQty float64 `json:"Excess Qty (if >60 days)"`
}

// Build derives the refill and excess tables. Inputs are not mutated; output
// order follows input order, so the tables inherit the upstream SKU ordering.
func Build(summary []cover.SummaryRow, warehouse []cover.WarehouseRow, opt Options) ([]RefillRow, []ExcessRow) {
	opt = opt.withDefaults()

	// Highest-stock warehouse per SKU. Strict comparison keeps the first
	// position encountered on ties.
	type best struct {
		warehouse string
		live      float64
	}
	bestBySKU := make(map[string]best, len(warehouse))
	for _, w := range warehouse {
		b, ok := bestBySKU[w.SKU]
		if !ok || w.Live > b.live {
			bestBySKU[w.SKU] = best{warehouse: w.WarehouseID, live: w.Live}
		}
	}

	var refill []RefillRow
	for _, s := range summary {
		if s.TotalFbfStock >= s.Requirement {
			continue
		}
		need := math.Round(s.Requirement - s.TotalFbfStock)
		if need < 0 {
			need = 0
		}
		refill = append(refill, RefillRow{
			SKU:           s.SKU,
			TotalSales:    s.TotalSales,
			DRR:           s.DRR,
			Requirement:   s.Requirement,
			TotalFbfStock: s.TotalFbfStock,
			RequiredQty:   need,
			Warehouse:     bestBySKU[s.SKU].warehouse,
		})
	}

	var excess []ExcessRow
	for _, w := range warehouse {
		if w.DRR <= 0 || float64(w.CoverDays) <= opt.ExcessWindowDays {
			continue
		}
		qty := w.Live - w.DRR*opt.ExcessWindowDays
		if qty <= 0 {
			// Exact boundary after flooring: the cover test passed but no
			// sellable surplus remains.
			continue
		}
		excess = append(excess, ExcessRow{
			SKU:         w.SKU,
			WarehouseID: w.WarehouseID,
			Live:        w.Live,
			DRR:         w.DRR,
			CoverDays:   w.CoverDays,
			ExcessQty:   qty,
		})
	}

	return refill, excess
}
