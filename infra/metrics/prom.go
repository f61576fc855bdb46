// Package metrics provides the concrete sink implementations behind
// core/metrics.MetricsSink: Prometheus, InfluxDB, a fan-out multi sink and
// the config-driven factory.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/perds/core/metrics"
)

// PromSink exports dispatch decisions as Prometheus metrics.
type PromSink struct {
	decisions  *prometheus.CounterVec
	distance   prometheus.Histogram
	queueWait  prometheus.Histogram
	reposition prometheus.Counter
}

// NewPromSink registers the sink's collectors on the default registry.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the sink's collectors on the given
// registerer. Already-registered collectors are reused instead of failing,
// so repeated construction is safe.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	s := &PromSink{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perds_decisions_total",
			Help: "Recorded dispatch decisions by unit type and severity.",
		}, []string{"unit_type", "severity"}),
		distance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "perds_response_distance",
			Help:    "Path distance of dispatched units.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		queueWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "perds_queue_wait_seconds",
			Help:    "Time incidents spent queued before dispatch.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		reposition: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perds_repositions_recorded_total",
			Help: "Proactive relocations recorded by the sink.",
		}),
	}

	collectors := []prometheus.Collector{s.decisions, s.distance, s.queueWait, s.reposition}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are := prometheus.AlreadyRegisteredError{}
			if errors.As(err, &are) {
				switch i {
				case 0:
					s.decisions = are.ExistingCollector.(*prometheus.CounterVec)
				case 1:
					s.distance = are.ExistingCollector.(prometheus.Histogram)
				case 2:
					s.queueWait = are.ExistingCollector.(prometheus.Histogram)
				case 3:
					s.reposition = are.ExistingCollector.(prometheus.Counter)
				}
				continue
			}
			return nil, fmt.Errorf("register prometheus collector: %w", err)
		}
	}
	return s, nil
}

// RecordDecisions implements core/metrics.MetricsSink.
func (s *PromSink) RecordDecisions(events []coremetrics.DecisionEvent) error {
	for _, ev := range events {
		s.decisions.WithLabelValues(ev.UnitType.String(), ev.Severity.String()).Inc()
		s.distance.Observe(ev.Distance)
		s.queueWait.Observe(ev.QueueWait.Seconds())
	}
	return nil
}

// RecordReposition implements core/metrics.RepositionRecorder.
func (s *PromSink) RecordReposition(coremetrics.RepositionEvent) error {
	s.reposition.Inc()
	return nil
}
