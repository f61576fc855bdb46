package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/perds/core/metrics"
)

// MultiSink fans every event out to all configured sinks. Errors are
// collected; one failing sink does not stop the others.
type MultiSink struct {
	sinks []coremetrics.MetricsSink
}

// NewMultiSink wraps the given sinks. Nil entries are skipped.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	out := make([]coremetrics.MetricsSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &MultiSink{sinks: out}
}

// RecordDecisions implements core/metrics.MetricsSink.
func (m *MultiSink) RecordDecisions(events []coremetrics.DecisionEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordDecisions(events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordReposition forwards to sinks that implement RepositionRecorder.
func (m *MultiSink) RecordReposition(ev coremetrics.RepositionEvent) error {
	var errs []error
	for _, s := range m.sinks {
		rec, ok := s.(coremetrics.RepositionRecorder)
		if !ok {
			continue
		}
		if err := rec.RecordReposition(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every wrapped sink that exposes a Close method.
func (m *MultiSink) Close() {
	for _, s := range m.sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
