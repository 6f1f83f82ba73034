package planner

import (
	"stockcover/internal/table"
)

// Output file names, matching the legacy planning sheets byte for byte so
// existing downloads and dashboards keep working.
const (
	SummaryFile   = "stock_cover_summary.csv"
	WarehouseFile = "warehouse_level_stock.csv"
	RefillFile    = "refill_recommendations.csv"
	ExcessFile    = "excess_stock.csv"
)

// Canonical output headers, in the legacy spellings.
const (
	colSKU         = "SKU"
	colTotalSales  = "Total Sales"
	colDays        = "Days_in_period"
	colDRR         = "DRR"
	colRequirement = "30day_requirement"
	colTotalStock  = "Total FBF Stock"
	colCoverSKU    = "Stock Cover Days (SKU level)"
	colWarehouse   = "Warehouse Id"
	colLive        = "Live on Website"
	colCoverWH     = "Stock Cover Days (Warehouse)"
	colRequiredQty = "Required Qty to reach 30d"
	colRecommended = "Recommended Warehouse"
	colExcessQty   = "Excess Qty (if >60 days)"
)

// Output pairs a persisted file name with its rendered table.
type Output struct {
	Name  string
	Table table.Table
}

// Outputs renders the four result tables in their canonical column order,
// ready for CSV serialization or a SQL sink. Infinite cover days render
// through the "inf" convention in table.FormatCell.
func (r *Result) Outputs() []Output {
	return []Output{
		{Name: SummaryFile, Table: r.SummaryTable()},
		{Name: WarehouseFile, Table: r.WarehouseTable()},
		{Name: RefillFile, Table: r.RefillTable()},
		{Name: ExcessFile, Table: r.ExcessTable()},
	}
}

// SummaryTable renders the SKU-level summary.
func (r *Result) SummaryTable() table.Table {
	t := table.New(colSKU, colTotalSales, colDays, colDRR, colRequirement, colTotalStock, colCoverSKU)
	for _, s := range r.Summary {
		t.Append(table.Row{
			colSKU:         s.SKU,
			colTotalSales:  s.TotalSales,
			colDays:        s.DaysInPeriod,
			colDRR:         s.DRR,
			colRequirement: s.Requirement,
			colTotalStock:  s.TotalFbfStock,
			colCoverSKU:    float64(s.CoverDays),
		})
	}
	return t
}

// WarehouseTable renders the per-warehouse table.
func (r *Result) WarehouseTable() table.Table {
	t := table.New(colSKU, colWarehouse, colLive, colDRR, colRequirement, colTotalSales, colCoverWH)
	for _, w := range r.Warehouse {
		t.Append(table.Row{
			colSKU:         w.SKU,
			colWarehouse:   w.WarehouseID,
			colLive:        w.Live,
			colDRR:         w.DRR,
			colRequirement: w.Requirement,
			colTotalSales:  w.TotalSales,
			colCoverWH:     float64(w.CoverDays),
		})
	}
	return t
}

// RefillTable renders the refill recommendations.
func (r *Result) RefillTable() table.Table {
	t := table.New(colSKU, colTotalSales, colDRR, colRequirement, colTotalStock, colRequiredQty, colRecommended)
	for _, f := range r.Refill {
		t.Append(table.Row{
			colSKU:         f.SKU,
			colTotalSales:  f.TotalSales,
			colDRR:         f.DRR,
			colRequirement: f.Requirement,
			colTotalStock:  f.TotalFbfStock,
			colRequiredQty: f.RequiredQty,
			colRecommended: f.Warehouse,
		})
	}
	return t
}

// ExcessTable renders the excess-stock rows.
func (r *Result) ExcessTable() table.Table {
	t := table.New(colSKU, colWarehouse, colLive, colDRR, colCoverWH, colExcessQty)
	for _, e := range r.Excess {
		t.Append(table.Row{
			colSKU:       e.SKU,
			colWarehouse: e.WarehouseID,
			colLive:      e.Live,
			colDRR:       e.DRR,
			colCoverWH:   float64(e.CoverDays),
			colExcessQty: e.ExcessQty,
		})
	}
	return t
}
