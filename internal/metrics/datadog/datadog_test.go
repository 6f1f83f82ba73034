package datadog

import (
	"sort"
	"testing"

	"stockcover/internal/metrics"
)

func TestNewBackend_RequiresAddr(t *testing.T) {
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("expected an error for an empty Addr")
	}
}

/*
TestNewBackend_FullConfig verifies that a client builds with a namespace and
global tags configured. DogStatsD is UDP, so no agent is needed to construct
the client or emit metrics.
*/
func TestNewBackend_FullConfig(t *testing.T) {
	b, err := NewBackend(Config{
		Addr:       "127.0.0.1:8125",
		Namespace:  "stockcover",
		GlobalTags: []string{"env:test"},
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter("planner_rows_total", 3, metrics.Labels{"kind": "sales_rows"})
	b.ObserveHistogram("planner_stage_duration_seconds", 0.25, metrics.Labels{"stage": "drr"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestLabelsToTags(t *testing.T) {
	got := labelsToTags(metrics.Labels{"stage": "drr", "status": "success"})
	sort.Strings(got)
	want := []string{"stage:drr", "status:success"}
	if len(got) != len(want) {
		t.Fatalf("tags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if labelsToTags(nil) != nil {
		t.Error("labelsToTags(nil) should be nil")
	}
}
