package cover

import (
	"encoding/json"
	"strings"
	"testing"

	"stockcover/internal/drr"
	"stockcover/internal/table"
)

func mustTable(t *testing.T, csv string) table.Table {
	t.Helper()
	tbl, _, err := table.ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return tbl
}

func demandRow(sku string, total, rate float64) drr.Row {
	return drr.Row{SKU: sku, TotalSales: total, DaysInPeriod: 2, DRR: rate, Requirement: rate * 30}
}

/*
TestCompute_JoinAsymmetry verifies the two-sided join contract: the summary
keeps exactly the demand SKU set (sales-only SKUs get zero stock, stock-only
SKUs are absent), while the warehouse table keeps every stock pair (demand
figures zeroed for never-sold SKUs).
*/
func TestCompute_JoinAsymmetry(t *testing.T) {
	demand := []drr.Row{
		demandRow("A", 20, 10), // has stock
		demandRow("B", 2, 1),   // sales only
	}
	stock := mustTable(t, `SKU,Warehouse Id,Live on Website
A,W1,5
C,W2,40
`)
	summary, warehouse, _, err := Compute(demand, stock)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if len(summary) != 2 {
		t.Fatalf("len(summary) = %d, want 2", len(summary))
	}
	if summary[0].SKU != "A" || summary[0].TotalFbfStock != 5 {
		t.Errorf("summary[0] = %+v, want A with stock 5", summary[0])
	}
	if summary[1].SKU != "B" || summary[1].TotalFbfStock != 0 {
		t.Errorf("summary[1] = %+v, want B with stock 0", summary[1])
	}

	if len(warehouse) != 2 {
		t.Fatalf("len(warehouse) = %d, want 2", len(warehouse))
	}
	if warehouse[0].SKU != "A" || warehouse[0].WarehouseID != "W1" || warehouse[0].Live != 5 {
		t.Errorf("warehouse[0] = %+v", warehouse[0])
	}
	// C never sold: kept with zero demand and infinite cover.
	c := warehouse[1]
	if c.SKU != "C" || c.DRR != 0 || !c.CoverDays.IsForever() {
		t.Errorf("warehouse[1] = %+v, want zero-demand C with infinite cover", c)
	}
}

/*
TestCompute_AggregationConsistency verifies that a SKU's summary stock always
equals the sum of its warehouse rows, including when rows repeat a
(SKU, warehouse) pair.
*/
func TestCompute_AggregationConsistency(t *testing.T) {
	demand := []drr.Row{demandRow("A", 20, 10)}
	stock := mustTable(t, `SKU,Warehouse Id,Live on Website
A,W1,5
A,W1,3
A,W2,2
`)
	summary, warehouse, _, err := Compute(demand, stock)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(warehouse) != 2 {
		t.Fatalf("len(warehouse) = %d, want 2 (W1 rows merged)", len(warehouse))
	}
	var sum float64
	for _, w := range warehouse {
		sum += w.Live
	}
	if summary[0].TotalFbfStock != sum {
		t.Errorf("summary stock %v != warehouse sum %v", summary[0].TotalFbfStock, sum)
	}
	if summary[0].TotalFbfStock != 10 {
		t.Errorf("TotalFbfStock = %v, want 10", summary[0].TotalFbfStock)
	}
	if got := float64(summary[0].CoverDays); got != 1 {
		t.Errorf("CoverDays = %v, want 1", got)
	}
}

func TestCompute_ZeroDemandIsForever(t *testing.T) {
	demand := []drr.Row{demandRow("A", 0, 0)}
	stock := mustTable(t, "SKU,Warehouse Id,Live on Website\nA,W1,5\n")
	summary, _, _, err := Compute(demand, stock)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !summary[0].CoverDays.IsForever() {
		t.Fatalf("CoverDays = %v, want Forever", summary[0].CoverDays)
	}
}

func TestCompute_MissingWarehouseGroupsUnderEmptyKey(t *testing.T) {
	demand := []drr.Row{demandRow("A", 20, 10)}
	stock := mustTable(t, "SKU,Warehouse Id,Live on Website\nA,,5\nA,W1,2\n")
	_, warehouse, _, err := Compute(demand, stock)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(warehouse) != 2 {
		t.Fatalf("len(warehouse) = %d, want 2", len(warehouse))
	}
	if warehouse[0].WarehouseID != "" || warehouse[0].Live != 5 {
		t.Errorf("warehouse[0] = %+v, want empty warehouse key first", warehouse[0])
	}
}

func TestCompute_BadStockQuantities(t *testing.T) {
	demand := []drr.Row{demandRow("A", 20, 10)}
	stock := mustTable(t, "SKU,Warehouse Id,Live on Website\nA,W1,oops\nA,W1,4\n")
	summary, _, stats, err := Compute(demand, stock)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if stats.BadQuantities != 1 {
		t.Errorf("BadQuantities = %d, want 1", stats.BadQuantities)
	}
	if summary[0].TotalFbfStock != 4 {
		t.Errorf("TotalFbfStock = %v, want 4", summary[0].TotalFbfStock)
	}
}

func TestCompute_WarehouseFallbacks(t *testing.T) {
	// No alias headers at all: SKU falls back to the first column, warehouse
	// to the second, live quantity to the last.
	demand := []drr.Row{demandRow("A", 20, 10)}
	stock := mustTable(t, "item,site,on hand\nA,W9,7\n")
	_, warehouse, _, err := Compute(demand, stock)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	w := warehouse[0]
	if w.WarehouseID != "W9" || w.Live != 7 {
		t.Errorf("warehouse[0] = %+v, want W9 with 7 units", w)
	}
}

func TestCompute_TwoColumnStockTable(t *testing.T) {
	// Second column doubles as warehouse id and, being last, as the quantity
	// source. The legacy sheets behave the same way.
	demand := []drr.Row{demandRow("A", 20, 10)}
	stock := mustTable(t, "item,qty\nA,5\n")
	_, warehouse, _, err := Compute(demand, stock)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	w := warehouse[0]
	if w.Live != 5 {
		t.Errorf("Live = %v, want 5", w.Live)
	}
}

func TestDaysMarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Finite  Days `json:"finite"`
		Forever Days `json:"forever"`
	}{Finite: 2.5, Forever: Forever})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"finite":2.5,"forever":"inf"}`
	if string(b) != want {
		t.Fatalf("Marshal = %s, want %s", b, want)
	}
}
