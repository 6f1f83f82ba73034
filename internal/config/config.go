// Package config defines the JSON-serializable configuration model for the
// stock-cover application. It is intentionally small and explicit so a run
// can be described in a single file, loaded from disk, and passed through the
// program without additional glue code.
//
// Field names in Go mirror the JSON structure. Every value has a working
// default; an empty file describes a complete local run that writes CSVs to
// the current directory and persists nothing.
//
// Example (trimmed):
//
//	{
//	  "job": "weekly-planning",
//	  "planner": { "default_days": 30, "excess_window_days": 60 },
//	  "output":  { "dir": "outputs" },
//	  "store":   { "kind": "sqlite", "dsn": "results.db", "auto_create_table": true },
//	  "metrics": { "pushgateway_url": "http://pushgw:9091" }
//	}
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"stockcover/internal/store"
)

// Config is the top-level object decoded from a config file.
type Config struct {
	// Job names the run for logging and metrics labeling.
	Job string `json:"job"`

	// Planner holds the analytics knobs.
	Planner Planner `json:"planner"`

	// Output controls where result CSVs are written.
	Output Output `json:"output"`

	// Store configures the optional SQL sink. An empty kind disables it.
	Store store.Config `json:"store"`

	// Metrics configures the optional metrics backends. Empty addresses
	// disable them.
	Metrics Metrics `json:"metrics"`

	// HTTP configures the upload server (stockcover-web only).
	HTTP HTTP `json:"http"`
}

// Planner holds the analytics parameters.
type Planner struct {
	// DefaultDays is the sales period length assumed when the sales table has
	// no usable date column.
	DefaultDays int `json:"default_days"`

	// RequirementDays is the forward window the requirement is computed over.
	RequirementDays int `json:"requirement_days"`

	// ExcessWindowDays is the cover threshold beyond which stock is flagged
	// as excess.
	ExcessWindowDays int `json:"excess_window_days"`

	// DateLayouts optionally overrides the accepted order-date formats
	// (Go reference-time layouts, tried in order).
	DateLayouts []string `json:"date_layouts"`
}

// Output controls the CSV file sink.
type Output struct {
	// Dir is the directory result CSVs are written into. Defaults to ".".
	Dir string `json:"dir"`
}

// Metrics configures run telemetry. Both backends may be enabled at once.
type Metrics struct {
	// PushgatewayURL enables pushing Prometheus metrics after each run.
	PushgatewayURL string `json:"pushgateway_url"`

	// StatsdAddr enables DogStatsD emission (host:port of the agent).
	StatsdAddr string `json:"statsd_addr"`

	// StatsdTags are extra tags attached to every DogStatsD metric,
	// "key:value" form.
	StatsdTags []string `json:"statsd_tags"`
}

// HTTP configures the upload server.
type HTTP struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr"`

	// MaxUploadBytes caps the size of one multipart upload.
	MaxUploadBytes int64 `json:"max_upload_bytes"`
}

// Default returns a Config with every field at its working default.
func Default() Config {
	return Config{
		Job: "stockcover",
		Planner: Planner{
			DefaultDays:      30,
			RequirementDays:  30,
			ExcessWindowDays: 60,
		},
		Output: Output{Dir: "."},
		HTTP: HTTP{
			Addr:           ":8080",
			MaxUploadBytes: 64 << 20,
		},
	}
}

// Load reads a JSON config file, layers it over Default, and applies
// STOCKCOVER_* environment overrides. An empty path skips the file and
// returns defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

// applyEnv overlays environment variables onto the config. Unset or empty
// variables leave the current value alone; malformed numbers are ignored
// rather than failing the run.
func (c *Config) applyEnv(getenv func(string) string) {
	setStr := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setStr(&c.Job, "STOCKCOVER_JOB")
	setInt(&c.Planner.DefaultDays, "STOCKCOVER_DEFAULT_DAYS")
	setInt(&c.Planner.RequirementDays, "STOCKCOVER_REQUIREMENT_DAYS")
	setInt(&c.Planner.ExcessWindowDays, "STOCKCOVER_EXCESS_WINDOW_DAYS")
	setStr(&c.Output.Dir, "STOCKCOVER_OUTPUT_DIR")
	setStr(&c.Store.Kind, "STOCKCOVER_STORE_KIND")
	setStr(&c.Store.DSN, "STOCKCOVER_STORE_DSN")
	setStr(&c.Metrics.PushgatewayURL, "STOCKCOVER_PUSHGATEWAY_URL")
	setStr(&c.Metrics.StatsdAddr, "STOCKCOVER_STATSD_ADDR")
	setStr(&c.HTTP.Addr, "STOCKCOVER_HTTP_ADDR")
}
