package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	incidentsReported  *prometheus.CounterVec
	dispatchSuccess    *prometheus.CounterVec
	dispatchFailure    prometheus.Counter
	incidentsResolved  prometheus.Counter
	repositionsApplied prometheus.Counter
	unitsRegistered    prometheus.Counter
	queueDepth         prometheus.Gauge
	dispatchDuration   prometheus.Histogram
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter, prometheus.Counter, prometheus.Counter, prometheus.Counter, prometheus.Gauge, prometheus.Histogram) {
	reported := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incidents_reported_total",
			Help: "Number of incidents reported to the engine",
		},
		[]string{"severity"},
	)
	success := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_success_total",
			Help: "Number of successful unit bindings",
		},
		[]string{"unit_type"},
	)
	failure := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_failure_total",
			Help: "Number of dispatch attempts with no capable unit",
		},
	)
	resolved := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "incidents_resolved_total",
			Help: "Number of incidents resolved",
		},
	)
	repositions := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unit_repositions_total",
			Help: "Number of proactive unit relocations applied",
		},
	)
	registered := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "units_registered_total",
			Help: "Number of units registered",
		},
	)
	depth := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "incident_queue_depth",
			Help: "Entries in the incident priority queue, stale included",
		},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_selection_seconds",
			Help:    "Time spent selecting the best unit for an incident",
			Buckets: prometheus.DefBuckets,
		},
	)
	return reported, success, failure, resolved, repositions, registered, depth, duration
}

func init() {
	incidentsReported, dispatchSuccess, dispatchFailure, incidentsResolved, repositionsApplied, unitsRegistered, queueDepth, dispatchDuration = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(incidentsReported, dispatchSuccess, dispatchFailure, incidentsResolved, repositionsApplied, unitsRegistered, queueDepth, dispatchDuration)
}

// ResetMetrics reinitializes the collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	incidentsReported, dispatchSuccess, dispatchFailure, incidentsResolved, repositionsApplied, unitsRegistered, queueDepth, dispatchDuration = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
