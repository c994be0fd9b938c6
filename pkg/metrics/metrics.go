package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TemplatesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "azrael_templates_total",
			Help: "Total number of templates in the document store",
		},
	)

	InstancesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "azrael_instances_total",
			Help: "Total number of live instances",
		},
	)

	ConstraintsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "azrael_constraints_total",
			Help: "Total number of constraints indexed by Igor",
		},
	)

	ClerkRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "azrael_clerk_requests_total",
			Help: "Total number of Clerk dispatch calls by command and outcome",
		},
		[]string{"cmd", "ok"},
	)

	ClerkRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "azrael_clerk_request_duration_seconds",
			Help:    "Clerk dispatch duration in seconds by command",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"cmd"},
	)

	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "azrael_queue_depth",
			Help: "Number of undrained entries in the physics command queue",
		},
	)

	HAIsLeader = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "azrael_ha_is_leader",
			Help: "Whether this node is the Raft leader (1 = leader, 0 = follower)",
		},
	)

	HAPeersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "azrael_ha_peers_total",
			Help: "Total number of Raft peers in the HA group",
		},
	)

	HAApplyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "azrael_ha_apply_duration_seconds",
			Help:    "Time taken to apply a Raft log entry in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	AssetBytesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "azrael_asset_bytes_written_total",
			Help: "Total number of fragment bytes written to the asset store",
		},
	)
)

func init() {
	prometheus.MustRegister(TemplatesTotal)
	prometheus.MustRegister(InstancesTotal)
	prometheus.MustRegister(ConstraintsTotal)
	prometheus.MustRegister(ClerkRequestsTotal)
	prometheus.MustRegister(ClerkRequestDuration)
	prometheus.MustRegister(QueueDepth)
	prometheus.MustRegister(HAIsLeader)
	prometheus.MustRegister(HAPeersTotal)
	prometheus.MustRegister(HAApplyDuration)
	prometheus.MustRegister(AssetBytesWritten)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Counts is a point-in-time sample of Clerk's collection sizes and
// queue backlog.
type Counts struct {
	Templates   int
	Instances   int
	Constraints int
	QueueDepth  int
}

// CountsSource is satisfied by *clerk.Clerk without this package
// importing pkg/clerk back — pkg/clerk already imports pkg/metrics to
// record Dispatch outcomes, so the dependency can only run one way.
type CountsSource interface {
	Counts() Counts
}

// BoolLabel renders a bool as the "true"/"false" Prometheus label
// value Dispatch tags ClerkRequestsTotal's ok dimension with.
func BoolLabel(ok bool) string {
	if ok {
		return "true"
	}
	return "false"
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
