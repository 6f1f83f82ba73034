// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// It adapts the generic metrics.Backend interface to Prometheus by:
//
//   - Using client_golang CounterVec and SummaryVec collectors.
//   - Mapping the planner labels (job, stage, status, kind) onto Prometheus
//     labels, with job doubling as the Pushgateway grouping key.
//   - Pushing collected metrics to a Pushgateway instead of exposing a scrape
//     endpoint, since planning runs are short-lived batch jobs.
//
// All Prometheus-specific dependencies stay inside this package so the rest
// of the project can swap metric systems without changes.
package prompush

import (
	"fmt"

	"stockcover/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stageCounter  *prometheus.CounterVec // "planner_stage_total"
	stageDuration *prometheus.SummaryVec // "planner_stage_duration_seconds"
	rowCounter    *prometheus.CounterVec // "planner_rows_total"
}

// NewBackend constructs a Pushgateway backend. jobName is the Pushgateway
// "job" grouping; gatewayURL is the base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "stockcover"
	}

	reg := prometheus.NewRegistry()

	stageCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_stage_total",
			Help: "Total number of planner stage executions, partitioned by stage and status.",
		},
		[]string{"stage", "status"},
	)
	stageDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "planner_stage_duration_seconds",
			Help:       "Duration of planner stages in seconds, partitioned by stage and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"stage", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_rows_total",
			Help: "Row-level counts per kind (sales_rows, bad_quantities, refill, etc.).",
		},
		[]string{"kind"},
	)

	reg.MustRegister(stageCounter, stageDuration, rowCounter)

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stageCounter:  stageCounter,
		stageDuration: stageDuration,
		rowCounter:    rowCounter,
	}, nil
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "planner_stage_total":
		b.stageCounter.WithLabelValues(labels["stage"], labels["status"]).Add(delta)
	case "planner_rows_total":
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	default:
		// Unknown counters are dropped; the collector set is fixed.
	}
}

// ObserveHistogram implements metrics.Backend using a summary collector.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "planner_stage_duration_seconds" {
		return
	}
	b.stageDuration.WithLabelValues(labels["stage"], labels["status"]).Observe(value)
}

// Flush pushes the collected metrics to the Pushgateway under the configured
// job grouping.
func (b *Backend) Flush() error {
	if err := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}
