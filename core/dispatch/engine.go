package dispatch

import (
	"container/heap"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/perds/core/logger"
	"github.com/kilianp07/perds/core/metrics"
	"github.com/kilianp07/perds/core/model"
	"github.com/kilianp07/perds/core/network"
	"github.com/kilianp07/perds/core/pathfind"
	"github.com/kilianp07/perds/internal/eventbus"
)

// Decision is a successful unit-to-incident binding. Unit and Incident are
// snapshots taken at decision time.
type Decision struct {
	Unit     model.Unit
	Incident model.Incident
	Path     pathfind.Result
	Score    float64
}

// Engine maintains the incident queue and the unit registry. All mutable
// state is guarded by one mutex covering the whole pop-candidate, query-paths,
// bind critical section, so availability reads and status writes are atomic
// together.
type Engine struct {
	graph  *network.Graph
	finder pathfind.Finder
	scorer *MultiCriteriaScorer
	log    logger.Logger
	sink   metrics.MetricsSink
	bus    eventbus.EventBus

	mu        sync.Mutex
	queue     incidentQueue
	incidents map[string]*model.Incident
	units     []*model.Unit
	unitsByID map[string]*model.Unit
	workload  map[string]int
	seq       uint64
}

// NewEngine creates a dispatch engine. Graph and finder are required; the
// logger, metrics sink and event bus may be nil.
func NewEngine(g *network.Graph, finder pathfind.Finder, log logger.Logger, sink metrics.MetricsSink, bus eventbus.EventBus) (*Engine, error) {
	if g == nil || finder == nil {
		return nil, fmt.Errorf("dispatch: nil graph or finder: %w", model.ErrInvalidArgument)
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Engine{
		graph:     g,
		finder:    finder,
		log:       log,
		sink:      sink,
		bus:       bus,
		incidents: make(map[string]*model.Incident),
		unitsByID: make(map[string]*model.Unit),
		workload:  make(map[string]int),
	}, nil
}

// UseScorer switches unit selection to the multi-criteria scorer. Passing nil
// reverts to the distance/severity ratio.
func (e *Engine) UseScorer(s *MultiCriteriaScorer) {
	e.mu.Lock()
	e.scorer = s
	e.mu.Unlock()
}

// RegisterUnit adds a unit to the registry. No duplicate detection is
// performed; registering the same ID twice is the caller's mistake.
func (e *Engine) RegisterUnit(u model.Unit) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := u
	e.units = append(e.units, &cp)
	e.unitsByID[cp.ID] = &cp
	unitsRegistered.Inc()
}

// ReportIncident records an incident and enqueues it for dispatch. A zero
// incident, or one without an ID or location, is rejected.
func (e *Engine) ReportIncident(inc model.Incident) error {
	if inc.ID == "" || inc.LocationID == "" {
		return fmt.Errorf("dispatch: incident without id or location: %w", model.ErrInvalidArgument)
	}
	if inc.ReportedAt.IsZero() {
		inc.ReportedAt = time.Now()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := inc
	e.incidents[cp.ID] = &cp
	e.seq++
	heap.Push(&e.queue, &queuedIncident{id: cp.ID, score: cp.PriorityScore(), reportedAt: cp.ReportedAt, seq: e.seq})
	incidentsReported.WithLabelValues(cp.Severity.String()).Inc()
	queueDepth.Set(float64(e.queue.Len()))
	e.log.Debugw("incident reported", map[string]any{
		"incident": cp.ID, "location": cp.LocationID, "type": cp.Type.String(), "severity": cp.Severity.String(),
	})
	return nil
}

// FindBestUnit scans the registry for the best available, type-compatible and
// path-reachable unit for the incident. Returns nil when none qualifies.
func (e *Engine) FindBestUnit(inc model.Incident) *Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findBestLocked(&inc)
}

func (e *Engine) findBestLocked(inc *model.Incident) *Decision {
	if e.scorer != nil {
		return e.findByScorerLocked(inc)
	}
	var best *Decision
	for _, u := range e.units {
		if !u.IsAvailable() || !u.Type.CanRespondTo(inc.Type) {
			continue
		}
		res, err := e.finder.FindShortestPath(e.graph, u.LocationID, inc.LocationID)
		if err != nil {
			e.log.Errorf("path query %s -> %s: %v", u.LocationID, inc.LocationID, err)
			continue
		}
		if !res.Valid {
			continue
		}
		score := res.TotalDistance / float64(inc.Severity.Priority())
		if best == nil || score < best.Score {
			best = &Decision{Unit: *u, Incident: *inc, Path: res, Score: score}
		}
	}
	return best
}

func (e *Engine) findByScorerLocked(inc *model.Incident) *Decision {
	var pool []model.Unit
	for _, u := range e.units {
		if u.IsAvailable() {
			pool = append(pool, *u)
		}
	}
	sd := e.scorer.FindOptimalUnit(*inc, pool, e.workload)
	if sd == nil {
		return nil
	}
	return &Decision{Unit: sd.Unit, Incident: *inc, Path: sd.Path, Score: sd.TotalScore}
}

// DispatchNext pops the highest-priority pending incident and binds the best
// unit to it. Stale queue entries (incidents already handled) are discarded;
// the scan is bounded by the queue length at entry, so an all-stale queue
// terminates. Returns nil when the queue is empty or no capable unit exists,
// in which case the incident is re-enqueued unchanged.
func (e *Engine) DispatchNext() *Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dispatchNextLocked()
}

func (e *Engine) dispatchNextLocked() *Decision {
	for attempts := e.queue.Len(); attempts > 0; attempts-- {
		item := heap.Pop(&e.queue).(*queuedIncident)
		inc, ok := e.incidents[item.id]
		if !ok || inc.Status != model.IncidentReported {
			queueDepth.Set(float64(e.queue.Len()))
			continue
		}

		start := time.Now()
		dec := e.findBestLocked(inc)
		dispatchDuration.Observe(time.Since(start).Seconds())

		if dec == nil {
			// Resource scarcity is steady state, not an error: requeue and
			// let the next cycle retry.
			heap.Push(&e.queue, item)
			dispatchFailure.Inc()
			e.log.Warnf("no capable unit for incident %s (%s, %s)", inc.ID, inc.Type, inc.Severity)
			if e.bus != nil {
				e.bus.Publish(DispatchFailedEvent{IncidentID: inc.ID})
			}
			return nil
		}

		unit := e.unitsByID[dec.Unit.ID]
		inc.Status = model.IncidentDispatched
		inc.AssignedUnitID = unit.ID
		unit.Status = model.UnitDispatched
		unit.IncidentID = inc.ID
		e.workload[unit.ID]++
		dec.Unit = *unit
		dec.Incident = *inc

		dispatchSuccess.WithLabelValues(unit.Type.String()).Inc()
		queueDepth.Set(float64(e.queue.Len()))
		e.log.Infof("dispatched %s to incident %s (distance %.2f)", unit.ID, inc.ID, dec.Path.TotalDistance)
		if e.sink != nil {
			ev := metrics.DecisionEvent{
				IncidentID:   inc.ID,
				UnitID:       unit.ID,
				IncidentType: inc.Type,
				Severity:     inc.Severity,
				UnitType:     unit.Type,
				Distance:     dec.Path.TotalDistance,
				QueueWait:    time.Since(inc.ReportedAt),
				Time:         time.Now(),
			}
			if err := e.sink.RecordDecisions([]metrics.DecisionEvent{ev}); err != nil {
				e.log.Errorf("record decision: %v", err)
			}
		}
		if e.bus != nil {
			e.bus.Publish(DispatchedEvent{Decision: *dec})
		}
		return dec
	}
	return nil
}

// DispatchAll drains the queue until a dispatch attempt fails, collecting the
// successful decisions. One unit-exhaustion event halts the whole batch for
// this cycle even if a different unit class could still serve a
// lower-priority incident; that greedy cut is part of the contract.
func (e *Engine) DispatchAll() []Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Decision
	for {
		dec := e.dispatchNextLocked()
		if dec == nil {
			return out
		}
		out = append(out, *dec)
	}
}

// ResolveIncident closes an active incident, frees its unit and moves the
// unit to the incident's location. Unknown ids are a no-op, which makes
// resolution idempotent.
func (e *Engine) ResolveIncident(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inc, ok := e.incidents[id]
	if !ok {
		return
	}
	inc.Status = model.IncidentResolved
	unitID := inc.AssignedUnitID
	if unit, ok := e.unitsByID[unitID]; ok && unitID != "" {
		unit.Status = model.UnitAvailable
		unit.IncidentID = ""
		unit.LocationID = inc.LocationID
	}
	inc.AssignedUnitID = ""
	delete(e.incidents, id)
	incidentsResolved.Inc()
	e.log.Infof("incident %s resolved", id)
	if e.bus != nil {
		e.bus.Publish(ResolvedEvent{IncidentID: id, UnitID: unitID})
	}
}

// RepositionUnit relocates an idle unit to the target location. The move is
// instantaneous; no path traversal is simulated. It goes through the same
// exclusive-access discipline as dispatch so it can never race a binding.
func (e *Engine) RepositionUnit(unitID, targetLocationID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	unit, ok := e.unitsByID[unitID]
	if !ok {
		return fmt.Errorf("dispatch: unknown unit %q: %w", unitID, network.ErrNotFound)
	}
	if !unit.IsAvailable() {
		return fmt.Errorf("dispatch: unit %q not available for repositioning", unitID)
	}
	if !e.graph.Contains(targetLocationID) {
		return fmt.Errorf("dispatch: unknown location %q: %w", targetLocationID, network.ErrNotFound)
	}
	from := unit.LocationID
	unit.LocationID = targetLocationID
	repositionsApplied.Inc()
	e.log.Infof("repositioned %s from %s to %s", unitID, from, targetLocationID)
	if rr, ok := e.sink.(metrics.RepositionRecorder); ok {
		ev := metrics.RepositionEvent{UnitID: unitID, FromID: from, TargetID: targetLocationID, Time: time.Now()}
		if res, err := e.finder.FindShortestPath(e.graph, from, targetLocationID); err == nil && res.Valid {
			ev.Distance = res.TotalDistance
		}
		if err := rr.RecordReposition(ev); err != nil {
			e.log.Errorf("record reposition: %v", err)
		}
	}
	if e.bus != nil {
		e.bus.Publish(RepositionedEvent{UnitID: unitID, FromID: from, TargetID: targetLocationID})
	}
	return nil
}

// Units returns a snapshot of all registered units.
func (e *Engine) Units() []model.Unit {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Unit, len(e.units))
	for i, u := range e.units {
		out[i] = *u
	}
	return out
}

// AvailableUnits returns a snapshot of units that can take an assignment.
func (e *Engine) AvailableUnits() []model.Unit {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []model.Unit
	for _, u := range e.units {
		if u.IsAvailable() {
			out = append(out, *u)
		}
	}
	return out
}

// ActiveIncidents returns a snapshot of unresolved incidents.
func (e *Engine) ActiveIncidents() []model.Incident {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Incident, 0, len(e.incidents))
	for _, inc := range e.incidents {
		out = append(out, *inc)
	}
	return out
}

// Workload returns a copy of the per-unit dispatch counters.
func (e *Engine) Workload() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]int, len(e.workload))
	for k, v := range e.workload {
		out[k] = v
	}
	return out
}

// PendingCount returns the number of queued entries, stale ones included.
func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}
