// Package metrics defines the observability boundary of the dispatch core.
// Sinks receive decision events; implementations live under infra/metrics.
package metrics

import (
	"time"

	"github.com/kilianp07/perds/core/model"
)

// DecisionEvent is a single unit-to-incident binding to be recorded.
type DecisionEvent struct {
	IncidentID   string
	UnitID       string
	IncidentType model.IncidentType
	Severity     model.Severity
	UnitType     model.UnitType
	Distance     float64
	QueueWait    time.Duration
	Time         time.Time
}

// RepositionEvent records a proactive unit relocation applied by the
// dispatch engine.
type RepositionEvent struct {
	UnitID   string
	FromID   string
	TargetID string
	Distance float64
	Time     time.Time
}

// MetricsSink records dispatch outcomes for observability purposes.
type MetricsSink interface {
	RecordDecisions(events []DecisionEvent) error
}

// RepositionRecorder is implemented by sinks that also track relocations.
type RepositionRecorder interface {
	RecordReposition(ev RepositionEvent) error
}

// NopSink discards everything.
type NopSink struct{}

// RecordDecisions implements MetricsSink.
func (NopSink) RecordDecisions([]DecisionEvent) error { return nil }
