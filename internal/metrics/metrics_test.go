package metrics

import (
	"errors"
	"testing"
	"time"
)

// captureBackend records every call for assertions.
type captureBackend struct {
	counters   []capturedMetric
	histograms []capturedMetric
	flushed    int
}

type capturedMetric struct {
	name   string
	value  float64
	labels Labels
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters = append(c.counters, capturedMetric{name, delta, labels})
}

func (c *captureBackend) ObserveHistogram(name string, value float64, labels Labels) {
	c.histograms = append(c.histograms, capturedMetric{name, value, labels})
}

func (c *captureBackend) Flush() error {
	c.flushed++
	return nil
}

// swapBackend installs b for the duration of the test.
func swapBackend(t *testing.T, b Backend) {
	t.Helper()
	prev := backend
	SetBackend(b)
	t.Cleanup(func() { backend = prev })
}

func TestRecordStage(t *testing.T) {
	cap := &captureBackend{}
	swapBackend(t, cap)

	RecordStage("job1", "drr", nil, 250*time.Millisecond)
	RecordStage("job1", "cover", errors.New("boom"), time.Second)

	if len(cap.counters) != 2 {
		t.Fatalf("counters = %d, want 2", len(cap.counters))
	}
	ok := cap.counters[0]
	if ok.name != "planner_stage_total" || ok.labels["stage"] != "drr" || ok.labels["status"] != "success" {
		t.Errorf("counters[0] = %+v", ok)
	}
	failed := cap.counters[1]
	if failed.labels["status"] != "failure" {
		t.Errorf("counters[1] = %+v", failed)
	}
	if len(cap.histograms) != 2 {
		t.Fatalf("histograms = %d, want 2", len(cap.histograms))
	}
	if cap.histograms[0].name != "planner_stage_duration_seconds" || cap.histograms[0].value != 0.25 {
		t.Errorf("histograms[0] = %+v", cap.histograms[0])
	}
}

func TestRecordRows(t *testing.T) {
	cap := &captureBackend{}
	swapBackend(t, cap)

	RecordRows("job1", "sales_rows", 100)
	RecordRows("job1", "refill", 0)  // zero deltas are dropped
	RecordRows("job1", "excess", -3) // negative deltas are dropped

	if len(cap.counters) != 1 {
		t.Fatalf("counters = %d, want 1", len(cap.counters))
	}
	got := cap.counters[0]
	if got.name != "planner_rows_total" || got.value != 100 || got.labels["kind"] != "sales_rows" {
		t.Errorf("counters[0] = %+v", got)
	}
}

func TestSetBackend_NilKeepsCurrent(t *testing.T) {
	cap := &captureBackend{}
	swapBackend(t, cap)

	SetBackend(nil)
	RecordRows("job1", "sales_rows", 1)
	if len(cap.counters) != 1 {
		t.Fatalf("nil SetBackend replaced the active backend")
	}
}

func TestFlush(t *testing.T) {
	cap := &captureBackend{}
	swapBackend(t, cap)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if cap.flushed != 1 {
		t.Fatalf("flushed = %d, want 1", cap.flushed)
	}
}

func TestNopBackendIsSafe(t *testing.T) {
	swapBackend(t, nopBackend{})
	RecordStage("job", "drr", nil, time.Millisecond)
	RecordRows("job", "sales_rows", 5)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}
