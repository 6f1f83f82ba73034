// Package planner orchestrates the three analytics stages over a pair of
// parsed input tables: demand-rate computation, stock-cover aggregation, and
// recommendation derivation. The planner owns no I/O; callers parse the two
// CSVs and decide what to do with the four result tables.
//
// Each run is independent and purely functional over its inputs, so callers
// may execute runs concurrently without coordination.
package planner

import (
	"context"
	"log"
	"time"

	"stockcover/internal/cover"
	"stockcover/internal/drr"
	"stockcover/internal/metrics"
	"stockcover/internal/recommend"
	"stockcover/internal/table"
)

// Config carries the run parameters. Thresholds are explicit so tests can
// override the windows; zero values take the production defaults.
type Config struct {
	// Job names the run for logs and metrics. Default "stockcover".
	Job string
	// DefaultDays is the day count used when no valid order dates exist.
	// Default 30.
	DefaultDays int
	// RefillWindowDays is the projection window for the requirement column
	// and the refill test. Default 30.
	RefillWindowDays float64
	// ExcessWindowDays is the cover threshold for excess positions.
	// Default 60.
	ExcessWindowDays float64
	// DateLayouts overrides the order-date layouts.
	DateLayouts []string
}

func (c Config) withDefaults() Config {
	if c.Job == "" {
		c.Job = "stockcover"
	}
	if c.DefaultDays <= 0 {
		c.DefaultDays = 30
	}
	if c.RefillWindowDays <= 0 {
		c.RefillWindowDays = 30
	}
	if c.ExcessWindowDays <= 0 {
		c.ExcessWindowDays = 60
	}
	return c
}

// Stats aggregates the soft-fail accounting of a run.
type Stats struct {
	SalesRows     int
	StockRows     int
	DaysInPeriod  int
	BadQuantities int
	BadDates      int
	BadStock      int
}

// Result holds the four output tables of one run as typed rows.
type Result struct {
	Summary   []cover.SummaryRow
	Warehouse []cover.WarehouseRow
	Refill    []recommend.RefillRow
	Excess    []recommend.ExcessRow
	Stats     Stats
}

// Run executes normalize → demand rate → stock cover → recommend over the two
// input tables. The only error condition is a schema failure (an identity
// column unresolvable even via fallback); per-cell anomalies degrade to
// zeroes and surface in Stats. The context is checked between stages so a
// canceled caller stops promptly.
func Run(ctx context.Context, sales, stock table.Table, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	res := &Result{}
	res.Stats.SalesRows = len(sales.Rows)

	start := time.Now()
	demand, dstats, err := drr.Compute(sales, drr.Options{
		DefaultDays:     cfg.DefaultDays,
		RequirementDays: cfg.RefillWindowDays,
		DateLayouts:     cfg.DateLayouts,
	})
	metrics.RecordStage(cfg.Job, "drr", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	res.Stats.DaysInPeriod = dstats.DaysInPeriod
	res.Stats.BadQuantities = dstats.BadQuantities
	res.Stats.BadDates = dstats.BadDates
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	summary, warehouse, cstats, err := cover.Compute(demand, stock)
	metrics.RecordStage(cfg.Job, "cover", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	res.Summary = summary
	res.Warehouse = warehouse
	res.Stats.StockRows = cstats.StockRows
	res.Stats.BadStock = cstats.BadQuantities
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	res.Refill, res.Excess = recommend.Build(summary, warehouse, recommend.Options{
		ExcessWindowDays: cfg.ExcessWindowDays,
	})
	metrics.RecordStage(cfg.Job, "recommend", nil, time.Since(start))

	metrics.RecordRows(cfg.Job, "sales_rows", int64(res.Stats.SalesRows))
	metrics.RecordRows(cfg.Job, "stock_rows", int64(res.Stats.StockRows))
	metrics.RecordRows(cfg.Job, "bad_quantities", int64(res.Stats.BadQuantities+res.Stats.BadStock))
	metrics.RecordRows(cfg.Job, "bad_dates", int64(res.Stats.BadDates))
	metrics.RecordRows(cfg.Job, "refill", int64(len(res.Refill)))
	metrics.RecordRows(cfg.Job, "excess", int64(len(res.Excess)))

	log.Printf(
		"planner: job=%s skus=%d warehouses=%d refill=%d excess=%d days=%d bad_qty=%d bad_dates=%d",
		cfg.Job, len(res.Summary), len(res.Warehouse), len(res.Refill), len(res.Excess),
		res.Stats.DaysInPeriod, res.Stats.BadQuantities+res.Stats.BadStock, res.Stats.BadDates,
	)
	return res, nil
}
