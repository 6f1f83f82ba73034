// Package main starts the upload server: a small web UI where sales and
// stock reports are uploaded and the planning results come back as JSON and
// downloadable CSVs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"stockcover/internal/config"
	"stockcover/internal/filestore"
	"stockcover/internal/metrics"
	"stockcover/internal/metrics/datadog"
	"stockcover/internal/metrics/prompush"
	"stockcover/internal/store"
	"stockcover/internal/webui"

	// register both sink backends with the store factory.
	_ "stockcover/internal/store/postgres"
	_ "stockcover/internal/store/sqlite"
)

func main() {
	var (
		cfgPath string
		addr    string
	)
	flag.StringVar(&cfgPath, "config", "", "config JSON path (optional)")
	flag.StringVar(&addr, "addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if addr != "" {
		cfg.HTTP.Addr = addr
	}

	hasError := false
	for _, iss := range config.Validate(cfg) {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		fatalf("configuration is invalid")
	}

	setupMetrics(cfg)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	files, err := filestore.New(cfg.Output.Dir)
	if err != nil {
		fatalf("%v", err)
	}

	var repo store.Repository
	if cfg.Store.Kind != "" {
		repo, err = store.New(context.Background(), cfg.Store)
		if err != nil {
			fatalf("%v", err)
		}
		defer repo.Close()
	}

	srv := webui.NewServer(cfg, files, repo)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("%v", err)
	}
}

func setupMetrics(cfg config.Config) {
	switch {
	case cfg.Metrics.PushgatewayURL != "":
		b, err := prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
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
			return
		}
		metrics.SetBackend(b)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
