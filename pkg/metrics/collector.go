package metrics

import (
	"time"
)

// Collector ticks every 15s, sampling a CountsSource's collection
// counts and queue depth into the package's gauges. It depends only
// on the CountsSource interface, not on *clerk.Clerk directly, since
// pkg/clerk imports this package to record Dispatch metrics and Go
// forbids the reverse import.
type Collector struct {
	source CountsSource
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector.
func NewCollector(source CountsSource) *Collector {
	return &Collector{source: source, stopCh: make(chan struct{})}
}

// Start begins collecting metrics.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	counts := c.source.Counts()
	TemplatesTotal.Set(float64(counts.Templates))
	InstancesTotal.Set(float64(counts.Instances))
	ConstraintsTotal.Set(float64(counts.Constraints))
	QueueDepth.Set(float64(counts.QueueDepth))
}
