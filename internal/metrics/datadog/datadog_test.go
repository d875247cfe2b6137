package datadog

import (
	"reflect"
	"testing"

	"wlcheck/internal/metrics"
)

type call struct {
	kind  string
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	calls   []call
	flushed int
	closed  int
}

func (f *fakeClient) Count(name string, value int64, tags []string, rate float64) error {
	f.calls = append(f.calls, call{"count", name, float64(value), tags})
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, rate float64) error {
	f.calls = append(f.calls, call{"histogram", name, value, tags})
	return nil
}

func (f *fakeClient) Flush() error { f.flushed++; return nil }
func (f *fakeClient) Close() error { f.closed++; return nil }

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("NewBackend() error = nil; want error for empty Addr")
	}
}

func TestBackend_ForwardsWithTags(t *testing.T) {
	t.Parallel()
	fc := &fakeClient{}
	b := &Backend{client: fc}

	b.IncCounter(metrics.RunsTotal, 1, metrics.Labels{"verdict": "Clean", "job": "nightly"})
	b.ObserveHistogram(metrics.RunDuration, 0.25, metrics.Labels{"verdict": "Clean"})
	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}

	want := []call{
		{"count", metrics.RunsTotal, 1, []string{"job:nightly", "verdict:Clean"}},
		{"histogram", metrics.RunDuration, 0.25, []string{"verdict:Clean"}},
	}
	if !reflect.DeepEqual(fc.calls, want) {
		t.Fatalf("calls=%#v; want %#v", fc.calls, want)
	}
	if fc.flushed != 1 || fc.closed != 1 {
		t.Fatalf("flushed=%d closed=%d; want 1/1", fc.flushed, fc.closed)
	}
}

func TestLabelsToTags_Empty(t *testing.T) {
	t.Parallel()
	if got := labelsToTags(nil); got != nil {
		t.Fatalf("labelsToTags(nil)=%v; want nil", got)
	}
}

var _ metrics.Backend = (*Backend)(nil)
