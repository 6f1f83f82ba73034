// This file adds a lightweight linter for Config values. It performs static
// checks over a decoded Config and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
	"time"

	"stockcover/internal/store"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into the
// config (e.g. "planner.default_days"); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether warnings are fatal.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and log lines",
		})
	}

	issues = append(issues, validatePlanner(c.Planner)...)
	issues = append(issues, validateStore(c.Store)...)
	issues = append(issues, validateHTTP(c.HTTP)...)

	return issues
}

func validatePlanner(p Planner) []Issue {
	var issues []Issue

	if p.DefaultDays <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "planner.default_days",
			Message:  fmt.Sprintf("default_days=%d; the assumed sales period must be positive", p.DefaultDays),
		})
	}
	if p.RequirementDays <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "planner.requirement_days",
			Message:  fmt.Sprintf("requirement_days=%d; the requirement window must be positive", p.RequirementDays),
		})
	}
	if p.ExcessWindowDays <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "planner.excess_window_days",
			Message:  fmt.Sprintf("excess_window_days=%d; the excess threshold must be positive", p.ExcessWindowDays),
		})
	}
	if p.ExcessWindowDays > 0 && p.RequirementDays > 0 && p.ExcessWindowDays < p.RequirementDays {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "planner.excess_window_days",
			Message:  "excess window is shorter than the requirement window; SKUs can be flagged for refill and excess at once",
		})
	}
	for i, layout := range p.DateLayouts {
		// A layout that cannot round-trip the reference date is a typo.
		ref := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
		got, err := time.Parse(layout, ref.Format(layout))
		if err != nil || got.Year() != 2006 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("planner.date_layouts[%d]", i),
				Message:  fmt.Sprintf("%q is not a usable Go time layout", layout),
			})
		}
	}

	return issues
}

func validateStore(s store.Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		// Persistence is optional.
		return issues
	}

	known := map[string]struct{}{
		"postgres": {},
		"sqlite":   {},
	}
	if _, ok := known[strings.ToLower(s.Kind)]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "store.kind",
			Message:  fmt.Sprintf("unknown store kind %q; ensure a matching backend is registered", s.Kind),
		})
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "store.dsn",
			Message:  "store.dsn must not be empty when a store kind is set",
		})
	}

	return issues
}

func validateHTTP(h HTTP) []Issue {
	var issues []Issue

	if strings.TrimSpace(h.Addr) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "http.addr",
			Message:  "http.addr must not be empty",
		})
	}
	if h.MaxUploadBytes <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "http.max_upload_bytes",
			Message:  fmt.Sprintf("max_upload_bytes=%d; uploads will be rejected", h.MaxUploadBytes),
		})
	}

	return issues
}
