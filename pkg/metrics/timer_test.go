package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewTimerStartsImmediately(t *testing.T) {
	timer := NewTimer()
	if timer.start.IsZero() {
		t.Error("NewTimer() start time is zero")
	}
	if time.Since(timer.start) > time.Second {
		t.Error("NewTimer() start time is not recent")
	}
}

func TestTimerDurationGrowsMonotonically(t *testing.T) {
	timer := NewTimer()
	var last time.Duration
	for i := 0; i < 3; i++ {
		time.Sleep(10 * time.Millisecond)
		d := timer.Duration()
		if d <= last {
			t.Errorf("Duration should be monotonically increasing: iteration %d, last=%v, current=%v", i, last, d)
		}
		last = d
	}
}

func TestTimerObserveDuration(t *testing.T) {
	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_duration_seconds",
		Help:    "Test duration histogram",
		Buckets: prometheus.DefBuckets,
	})

	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	timer.ObserveDuration(histogram)

	var m dto.Metric
	if err := histogram.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.Histogram.GetSampleCount() != 1 {
		t.Errorf("expected one observation, got %d", m.Histogram.GetSampleCount())
	}
}

// TestTimerObserveDurationVecByCmd mirrors how Clerk.Dispatch uses
// Timer.ObserveDurationVec against ClerkRequestDuration: one label,
// named cmd, so this exercises the exact shape Dispatch relies on
// rather than a generic "operation" label.
func TestTimerObserveDurationVecByCmd(t *testing.T) {
	vec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "test_clerk_request_duration_seconds",
			Help:    "Test request duration histogram vec",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"cmd"},
	)

	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	timer.ObserveDurationVec(vec, "spawn")

	var m dto.Metric
	if err := vec.WithLabelValues("spawn").(prometheus.Histogram).Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.Histogram.GetSampleCount() != 1 {
		t.Errorf("expected one observation under cmd=spawn, got %d", m.Histogram.GetSampleCount())
	}
}

func TestMultipleTimersRunIndependently(t *testing.T) {
	timer1 := NewTimer()
	time.Sleep(20 * time.Millisecond)
	timer2 := NewTimer()
	time.Sleep(20 * time.Millisecond)

	if timer1.Duration() <= timer2.Duration() {
		t.Errorf("timer1 should be running longer: timer1=%v, timer2=%v", timer1.Duration(), timer2.Duration())
	}
}
