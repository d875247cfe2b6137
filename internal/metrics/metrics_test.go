package metrics

import (
	"sync"
	"testing"
	"time"

	"wlcheck/internal/finding"
	"wlcheck/internal/report"
	"wlcheck/internal/schemadiff"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	callsCounters   []counterCall
	callsHistograms []histCall
	flushCount      int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsCounters = append(f.callsCounters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsHistograms = append(f.callsHistograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	orig := backend
	t.Cleanup(func() { backend = orig })
	fb := &fakeBackend{}
	backend = fb
	return fb
}

func TestRecordRun(t *testing.T) {
	fb := install(t)

	RecordRun("nightly", report.Blocked, 2*time.Second)
	RecordRun("nightly", report.Clean, 1500*time.Millisecond)

	if len(fb.callsCounters) != 2 || len(fb.callsHistograms) != 2 {
		t.Fatalf("counters=%d histograms=%d; want 2/2", len(fb.callsCounters), len(fb.callsHistograms))
	}
	c0 := fb.callsCounters[0]
	if c0.name != RunsTotal || c0.delta != 1 {
		t.Fatalf("counter[0] = %#v; want name=%s, delta=1", c0, RunsTotal)
	}
	if c0.labels["job"] != "nightly" || c0.labels["verdict"] != "Blocked" {
		t.Fatalf("counter[0].labels=%v", c0.labels)
	}
	h1 := fb.callsHistograms[1]
	if h1.name != RunDuration || h1.labels["verdict"] != "Clean" {
		t.Fatalf("hist[1] = %#v", h1)
	}
	if h1.value < 1.5-0.001 || h1.value > 1.5+0.001 {
		t.Fatalf("hist[1].value=%v; want ~1.5", h1.value)
	}
}

func TestRecordFindings(t *testing.T) {
	fb := install(t)

	r := report.Report{
		Errors:     []finding.Finding{finding.Errorf(finding.ColumnCountMismatch, "x")},
		Warnings:   []finding.Finding{finding.Warnf(finding.EmptyRow, "y"), finding.Warnf(finding.EmptyRow, "z")},
		Statistics: report.Statistics{TotalRows: 7},
		SchemaDiff: schemadiff.Result{Added: []string{"x"}, RequiresRecreate: true},
	}
	RecordFindings("j", r)

	if len(fb.callsCounters) != 5 {
		t.Fatalf("expected 5 counter calls, got %d: %#v", len(fb.callsCounters), fb.callsCounters)
	}
	c0 := fb.callsCounters[0]
	if c0.name != FindingsTotal || c0.labels["severity"] != "error" || c0.labels["code"] != "column-count-mismatch" {
		t.Fatalf("counter[0] = %#v", c0)
	}
	rows := fb.callsCounters[3]
	if rows.name != RowsTotal || rows.delta != 7 {
		t.Fatalf("counter[3] = %#v; want rows=7", rows)
	}
	if fb.callsCounters[4].name != RecreatesTotal {
		t.Fatalf("counter[4] = %#v; want %s", fb.callsCounters[4], RecreatesTotal)
	}
}

func TestRecordFault(t *testing.T) {
	fb := install(t)
	RecordFault("j", "read")
	if len(fb.callsCounters) != 1 {
		t.Fatalf("expected 1 counter call, got %d", len(fb.callsCounters))
	}
	c := fb.callsCounters[0]
	if c.name != FaultsTotal || c.labels["stage"] != "read" {
		t.Fatalf("counter = %#v", c)
	}
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	fb := install(t)
	SetBackend(nil)
	if backend != Backend(fb) {
		t.Fatal("SetBackend(nil) replaced the backend")
	}
	if err := Flush(); err != nil || fb.flushCount != 1 {
		t.Fatalf("Flush err=%v count=%d", err, fb.flushCount)
	}
}
