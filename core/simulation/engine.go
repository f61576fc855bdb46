// Package simulation drives the dispatch core with manufactured incident
// load: a seeded fixed-timestep loop that reports incidents, dispatches,
// resolves in-flight work probabilistically and periodically triggers
// repositioning.
package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/perds/core/demand"
	"github.com/kilianp07/perds/core/dispatch"
	"github.com/kilianp07/perds/core/logger"
	"github.com/kilianp07/perds/core/model"
	"github.com/kilianp07/perds/core/network"
	"github.com/kilianp07/perds/core/prediction"
)

// Engine owns one simulation run. It is not safe for concurrent use; each
// run gets its own Engine.
type Engine struct {
	cfg        Config
	graph      *network.Graph
	dispatcher *dispatch.Engine
	demand     *demand.Model
	repos      *demand.Repositioner
	regressor  *prediction.RidgeRegressor
	log        logger.Logger

	rng      *rand.Rand
	clock    time.Time
	carry    float64
	inFlight []string
}

// New creates a simulation engine. Graph, dispatcher and demand model are
// required; the repositioner and logger may be nil.
func New(cfg Config, g *network.Graph, d *dispatch.Engine, dm *demand.Model, repos *demand.Repositioner, log logger.Logger) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if g == nil || d == nil || dm == nil {
		return nil, fmt.Errorf("simulation: nil graph, dispatcher or demand model: %w", model.ErrInvalidArgument)
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Engine{
		cfg:        cfg,
		graph:      g,
		dispatcher: d,
		demand:     dm,
		repos:      repos,
		log:        log,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		clock:      time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC),
	}, nil
}

// SetRegressor attaches the learning demand model; the engine feeds it one
// sample per location per step and refits it at the end of the run.
func (e *Engine) SetRegressor(r *prediction.RidgeRegressor) { e.regressor = r }

// Run executes the configured number of steps and returns the run report.
func (e *Engine) Run() (*Report, error) {
	report := newReport(e.cfg.Steps)
	locations := e.graph.Locations()
	if len(locations) == 0 {
		return nil, fmt.Errorf("simulation: empty network: %w", model.ErrInvalidArgument)
	}

	for step := 1; step <= e.cfg.Steps; step++ {
		counts := e.generateIncidents(locations, report)
		e.dispatchCycle(report)
		e.resolveCycle(report)

		if e.repos != nil && e.cfg.RepositionEvery > 0 && step%e.cfg.RepositionEvery == 0 {
			e.repositionCycle(report)
		}
		if e.regressor != nil {
			for locID, n := range counts {
				e.regressor.Observe(prediction.Sample{LocationID: locID, At: e.clock, Count: float64(n)})
			}
		}
		e.clock = e.clock.Add(time.Duration(e.cfg.StepMinutes) * time.Minute)
	}

	report.Backlog = len(e.dispatcher.ActiveIncidents())
	if e.regressor != nil {
		if err := e.regressor.Fit(); err != nil {
			e.log.Debugf("regressor fit skipped: %v", err)
		}
	}
	e.log.Infof("simulation done: %d reported, %d dispatched, %d resolved, backlog %d",
		report.Reported, report.Dispatched, report.Resolved, report.Backlog)
	return report, nil
}

// generateIncidents manufactures this step's arrivals. The expected arrival
// count accumulates fractionally across steps so low rates still produce
// incidents eventually.
func (e *Engine) generateIncidents(locations []model.Location, report *Report) map[string]int {
	e.carry += e.cfg.IncidentsPerHour * float64(e.cfg.StepMinutes) / 60.0
	n := int(e.carry)
	e.carry -= float64(n)

	counts := make(map[string]int)
	for i := 0; i < n; i++ {
		loc := e.pickLocation(locations)
		inc := model.Incident{
			ID:         uuid.NewString(),
			LocationID: loc,
			Type:       model.IncidentType(e.rng.Intn(5)),
			Severity:   model.Severity(1 + e.rng.Intn(4)),
			ReportedAt: e.clock,
		}
		if err := e.dispatcher.ReportIncident(inc); err != nil {
			e.log.Errorf("report incident: %v", err)
			continue
		}
		e.demand.RecordIncident(inc)
		report.Reported++
		counts[loc]++
	}
	return counts
}

// pickLocation chooses a hotspot with the configured bias, otherwise a
// uniform location.
func (e *Engine) pickLocation(locations []model.Location) string {
	if e.rng.Float64() < e.cfg.HotspotBias {
		if top := e.demand.TopNByDemand(3); len(top) > 0 {
			return top[e.rng.Intn(len(top))]
		}
	}
	return locations[e.rng.Intn(len(locations))].ID
}

func (e *Engine) dispatchCycle(report *Report) {
	decisions := e.dispatcher.DispatchAll()
	if len(decisions) == 0 {
		report.StarvedCycles++
		return
	}
	for _, dec := range decisions {
		report.Dispatched++
		report.Distances = append(report.Distances, dec.Path.TotalDistance)
		report.DistancesBySeverity[dec.Incident.Severity] = append(report.DistancesBySeverity[dec.Incident.Severity], dec.Path.TotalDistance)
		e.inFlight = append(e.inFlight, dec.Incident.ID)
	}
}

func (e *Engine) resolveCycle(report *Report) {
	remaining := e.inFlight[:0]
	for _, id := range e.inFlight {
		if e.rng.Float64() < e.cfg.ResolveProbability {
			e.dispatcher.ResolveIncident(id)
			report.Resolved++
			continue
		}
		remaining = append(remaining, id)
	}
	e.inFlight = remaining
}

func (e *Engine) repositionCycle(report *Report) {
	recs := e.repos.Recommend(e.dispatcher.AvailableUnits())
	for _, rec := range recs {
		if err := e.dispatcher.RepositionUnit(rec.Unit.ID, rec.TargetLocationID); err != nil {
			e.log.Warnf("apply reposition: %v", err)
			continue
		}
		report.Repositioned++
	}
}
