// Package main is the entry point for the batch binary. It reads a sales CSV
// and a stock CSV from disk, runs the planning pipeline, writes the four
// result CSVs, and optionally persists them to a SQL sink.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"stockcover/internal/config"
	"stockcover/internal/filestore"
	"stockcover/internal/metrics"
	"stockcover/internal/metrics/datadog"
	"stockcover/internal/metrics/prompush"
	"stockcover/internal/planner"
	"stockcover/internal/store"
	"stockcover/internal/table"

	// register both sink backends with the store factory.
	_ "stockcover/internal/store/postgres"
	_ "stockcover/internal/store/sqlite"
)

func main() {
	var (
		cfgPath   string
		salesPath string
		stockPath string
		outDir    string
		storeKind string
		storeDSN  string
		gwURL     string
		statsd    string
		validate  bool
	)

	flag.StringVar(&cfgPath, "config", "", "config JSON path (optional)")
	flag.StringVar(&salesPath, "sales", "", "sales report CSV path")
	flag.StringVar(&stockPath, "stock", "", "stock report CSV path")
	flag.StringVar(&outDir, "out", "", "output directory (overrides config)")
	flag.StringVar(&storeKind, "store", "", "SQL sink kind: postgres, sqlite (overrides config)")
	flag.StringVar(&storeDSN, "dsn", "", "SQL sink connection string (overrides config)")
	flag.StringVar(&gwURL, "pushgateway-url", "", "Pushgateway base URL (overrides config)")
	flag.StringVar(&statsd, "statsd-addr", "", "DogStatsD agent address (overrides config)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if storeKind != "" {
		cfg.Store.Kind = storeKind
		cfg.Store.AutoCreate = true
	}
	if storeDSN != "" {
		cfg.Store.DSN = storeDSN
	}
	if gwURL != "" {
		cfg.Metrics.PushgatewayURL = gwURL
	}
	if statsd != "" {
		cfg.Metrics.StatsdAddr = statsd
	}

	issues := config.Validate(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		fatalf("configuration is invalid")
	}
	if validate {
		log.Printf("configuration is valid")
		return
	}
	if salesPath == "" || stockPath == "" {
		fatalf("both -sales and -stock are required")
	}

	flush := setupMetrics(cfg, *verbose)

	// Errors bubble up through run so the metrics flush and the sink's
	// deferred Close still happen before the process exits.
	if err := run(context.Background(), cfg, salesPath, stockPath, *verbose); err != nil {
		log.Printf("%v", err)
		flush()
		os.Exit(1)
	}
	flush()
}

func run(ctx context.Context, cfg config.Config, salesPath, stockPath string, verbose bool) error {
	start := time.Now()

	sales, stock, err := readInputs(salesPath, stockPath)
	if err != nil {
		return err
	}

	res, err := planner.Run(ctx, sales, stock, plannerConfig(cfg))
	if err != nil {
		return err
	}

	files, err := filestore.New(cfg.Output.Dir)
	if err != nil {
		return err
	}
	outputs := res.Outputs()
	if err := files.WriteOutputs(outputs); err != nil {
		return err
	}
	for _, out := range outputs {
		log.Printf("%s: %d rows", out.Name, out.Table.Len())
	}

	if cfg.Store.Kind != "" {
		repo, err := store.New(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := store.EnsureTables(ctx, repo, cfg.Store, outputs, "DOUBLE PRECISION", "BIGINT", "TEXT"); err != nil {
			return err
		}
		if err := store.Save(ctx, repo, cfg.Store, outputs); err != nil {
			return err
		}
	}

	if verbose {
		log.Printf("fingerprint=%016x", res.Fingerprint())
	}
	log.Printf("completed in %s, results in %s",
		time.Since(start).Truncate(time.Millisecond), files.Dir())
	return nil
}

// readInputs loads both CSVs concurrently. The files are read start to end
// exactly once, so the kernel is hinted for sequential readahead.
func readInputs(salesPath, stockPath string) (sales, stock table.Table, err error) {
	read := func(path string) (table.Table, error) {
		f, err := os.Open(path)
		if err != nil {
			return table.Table{}, err
		}
		defer f.Close()

		// Best-effort kernel hint: single sequential pass; please readahead.
		_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
		_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_WILLNEED)

		t, _, err := table.ReadCSV(bufio.NewReaderSize(f, 1<<20))
		return t, err
	}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		if sales, err = read(salesPath); err != nil {
			return fmt.Errorf("sales file: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if stock, err = read(stockPath); err != nil {
			return fmt.Errorf("stock file: %w", err)
		}
		return nil
	})
	err = g.Wait()
	return sales, stock, err
}

// setupMetrics wires the configured backends and returns the final flush.
func setupMetrics(cfg config.Config, verbose bool) func() {
	switch {
	case cfg.Metrics.PushgatewayURL != "":
		b, err := prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			break
		}
		if verbose {
			log.Printf("metrics: pushgateway url=%s job=%s", cfg.Metrics.PushgatewayURL, cfg.Job)
		}
		metrics.SetBackend(b)
	case cfg.Metrics.StatsdAddr != "":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.Metrics.StatsdAddr,
			Namespace:  "stockcover",
			GlobalTags: cfg.Metrics.StatsdTags,
		})
		if err != nil {
			log.Printf("metrics: failed to init statsd backend: %v; using nop", err)
			break
		}
		if verbose {
			log.Printf("metrics: statsd addr=%s job=%s", cfg.Metrics.StatsdAddr, cfg.Job)
		}
		metrics.SetBackend(b)
	}
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

func plannerConfig(cfg config.Config) planner.Config {
	return planner.Config{
		Job:              cfg.Job,
		DefaultDays:      cfg.Planner.DefaultDays,
		RefillWindowDays: float64(cfg.Planner.RequirementDays),
		ExcessWindowDays: float64(cfg.Planner.ExcessWindowDays),
		DateLayouts:      cfg.Planner.DateLayouts,
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
