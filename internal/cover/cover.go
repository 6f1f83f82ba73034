// Package cover aggregates a raw stock table against demand rates, producing
// the SKU-level summary (total fulfillment stock, cover days) and the
// SKU×warehouse table (per-warehouse stock, cover days).
//
// The zero-demand convention lives here: a SKU with DRR 0 has infinite cover
// (its stock never depletes), expressed as the Forever constant rather than a
// division error.
package cover

import (
	"encoding/json"
	"math"
	"sort"

	"stockcover/internal/drr"
	"stockcover/internal/schema"
	"stockcover/internal/table"
)

// Days is a stock-cover duration. DRR 0 yields Forever.
//
// encoding/json cannot represent IEEE infinities, so Days marshals +Inf as
// the string "inf"; finite values marshal as plain numbers. Delimited output
// uses the same "inf" spelling via table.FormatCell.
type Days float64

// Forever is the cover duration of stock under zero demand.
var Forever = Days(math.Inf(1))

// IsForever reports whether d is the infinite-cover value.
func (d Days) IsForever() bool { return math.IsInf(float64(d), 1) }

// MarshalJSON renders finite durations as numbers and infinite cover as "inf".
func (d Days) MarshalJSON() ([]byte, error) {
	if d.IsForever() {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(d))
}

// coverDays applies the zero-demand convention to a stock/rate pair.
func coverDays(stock, rate float64) Days {
	if rate == 0 {
		return Forever
	}
	return Days(stock / rate)
}

// SummaryRow extends a demand-rate row with SKU-level stock figures.
type SummaryRow struct {
	SKU           string  `json:"SKU"`
	TotalSales    float64 `json:"Total Sales"`
	DaysInPeriod  int     `json:"Days_in_period"`
	DRR           float64 `json:"DRR"`
	Requirement   float64 `json:"30day_requirement"`
	TotalFbfStock float64 `json:"Total FBF Stock"`
	CoverDays     Days    `json:"Stock Cover Days (SKU level)"`
}

// WarehouseRow is the per-SKU-per-warehouse stock position joined with the
// SKU's demand figures. The DRR is the SKU's run-wide rate duplicated across
// that SKU's warehouses; SKUs absent from the sales log carry rate 0.
type WarehouseRow struct {
	SKU         string  `json:"SKU"`
	WarehouseID string  `json:"Warehouse Id"`
	Live        float64 `json:"Live on Website"`
	DRR         float64 `json:"DRR"`
	Requirement float64 `json:"30day_requirement"`
	TotalSales  float64 `json:"Total Sales"`
	CoverDays   Days    `json:"Stock Cover Days (Warehouse)"`
}

// Stats is the soft-fail accounting for one computation.
type Stats struct {
	// BadQuantities counts available-quantity cells that failed numeric
	// coercion and were treated as zero.
	BadQuantities int
	// StockRows is the number of raw stock rows aggregated.
	StockRows int
}

// Compute aggregates the stock table and joins it against the demand rows.
//
// Join semantics are deliberately asymmetric: the summary keeps exactly the
// SKU set of the demand rows (stock-only SKUs are not promoted into it;
// sales-only SKUs get zero stock), while the warehouse table keeps every
// (SKU, warehouse) pair seen in stock, joining demand figures where they
// exist and zeroes where they don't. Missing warehouse ids group under the
// empty key rather than being dropped. Both outputs are ordered by their
// grouping key so identical inputs render identically.
func Compute(demand []drr.Row, stock table.Table) ([]SummaryRow, []WarehouseRow, Stats, error) {
	var stats Stats

	skuRes, err := schema.Resolve(stock, schema.StockSKU)
	if err != nil {
		return nil, nil, stats, schema.WithTable(err, "stock")
	}
	whRes, err := schema.Resolve(stock, schema.StockWarehouse)
	if err != nil {
		return nil, nil, stats, schema.WithTable(err, "stock")
	}
	liveRes, err := schema.Resolve(stock, schema.StockLive)
	if err != nil {
		return nil, nil, stats, schema.WithTable(err, "stock")
	}

	// Per (SKU, warehouse) stock totals.
	type whKey struct{ sku, wh string }
	perWarehouse := map[whKey]float64{}
	for _, row := range stock.Rows {
		key := whKey{
			sku: table.AsString(skuRes.Value(row)),
			wh:  table.AsString(whRes.Value(row)),
		}
		live, ok := table.ToFloat(liveRes.Value(row))
		if !ok {
			if liveRes.Value(row) != nil {
				stats.BadQuantities++
			}
			live = 0
		}
		perWarehouse[key] += live
	}
	stats.StockRows = len(stock.Rows)

	keys := make([]whKey, 0, len(perWarehouse))
	for k := range perWarehouse {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].sku != keys[j].sku {
			return keys[i].sku < keys[j].sku
		}
		return keys[i].wh < keys[j].wh
	})

	// Per-SKU totals roll up from the warehouse aggregation, so the summary
	// column always equals the sum of that SKU's warehouse rows.
	perSKU := map[string]float64{}
	for k, v := range perWarehouse {
		perSKU[k.sku] += v
	}

	bysku := make(map[string]drr.Row, len(demand))
	for _, d := range demand {
		bysku[d.SKU] = d
	}

	summary := make([]SummaryRow, 0, len(demand))
	for _, d := range demand {
		total := perSKU[d.SKU]
		summary = append(summary, SummaryRow{
			SKU:           d.SKU,
			TotalSales:    d.TotalSales,
			DaysInPeriod:  d.DaysInPeriod,
			DRR:           d.DRR,
			Requirement:   d.Requirement,
			TotalFbfStock: total,
			CoverDays:     coverDays(total, d.DRR),
		})
	}

	warehouse := make([]WarehouseRow, 0, len(keys))
	for _, k := range keys {
		live := perWarehouse[k]
		d := bysku[k.sku] // zero Row when the SKU never sold
		warehouse = append(warehouse, WarehouseRow{
			SKU:         k.sku,
			WarehouseID: k.wh,
			Live:        live,
			DRR:         d.DRR,
			Requirement: d.Requirement,
			TotalSales:  d.TotalSales,
			CoverDays:   coverDays(live, d.DRR),
		})
	}

	return summary, warehouse, stats, nil
}
