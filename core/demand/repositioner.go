package demand

import (
	"sort"

	"github.com/kilianp07/perds/core/logger"
	"github.com/kilianp07/perds/core/model"
	"github.com/kilianp07/perds/core/network"
	"github.com/kilianp07/perds/core/pathfind"
)

const (
	// benefitThreshold is the minimum relative demand gain before a
	// relocation is worth recommending.
	benefitThreshold = 0.6
	// maxRecommendationsPerCycle caps how many moves one call may suggest.
	maxRecommendationsPerCycle = 3
	// underservedFactor: a location is underserved when demand exceeds this
	// multiple of its coverage.
	underservedFactor = 1.5
	// opportunityCostScale converts the origin's incident probability into a
	// distance-comparable penalty.
	opportunityCostScale = 10.0
)

// Recommendation proposes relocating one idle unit to a target location.
type Recommendation struct {
	Unit             model.Unit
	TargetLocationID string
	Benefit          float64
	Path             pathfind.Result
}

// Repositioner turns demand scores into relocation recommendations. It only
// reads; applying a recommendation mutates unit state and belongs to the
// dispatch engine's exclusive-access discipline.
type Repositioner struct {
	graph  *network.Graph
	model  *Model
	finder pathfind.Finder
	log    logger.Logger
}

// NewRepositioner creates a repositioner over the given graph and demand
// model. The logger may be nil.
func NewRepositioner(g *network.Graph, m *Model, finder pathfind.Finder, log logger.Logger) *Repositioner {
	if log == nil {
		log = logger.Nop{}
	}
	return &Repositioner{graph: g, model: m, finder: finder, log: log}
}

// CoverageScore measures how well current unit placement serves a location:
// each available unit with a valid path contributes 10/(1+distance), so the
// contribution diminishes with distance and pathless units contribute
// nothing.
func (r *Repositioner) CoverageScore(locationID string, units []model.Unit) float64 {
	coverage := 0.0
	for _, u := range units {
		if !u.IsAvailable() {
			continue
		}
		res, err := r.finder.FindShortestPath(r.graph, u.LocationID, locationID)
		if err != nil || !res.Valid {
			continue
		}
		coverage += 10.0 / (1.0 + res.TotalDistance)
	}
	return coverage
}

// Recommend ranks underserved locations by their demand-coverage gap and
// picks, for each, the idle unit with the lowest relocation cost (path
// distance plus an opportunity-cost penalty for leaving its current area).
// A move is only emitted when its relative benefit clears the threshold.
func (r *Repositioner) Recommend(available []model.Unit) []Recommendation {
	if len(available) == 0 {
		return nil
	}
	demandScores := r.model.DemandScores()
	if len(demandScores) == 0 {
		return nil // no history yet
	}

	targets := r.underserved(demandScores, available)

	var out []Recommendation
	pool := make([]model.Unit, len(available))
	copy(pool, available)

	for _, target := range targets {
		if len(out) >= maxRecommendationsPerCycle {
			break
		}
		unit, path, ok := r.cheapestMove(pool, target)
		if !ok {
			continue
		}
		targetDemand := demandScores[target]
		originDemand := demandScores[unit.LocationID]
		denom := targetDemand
		if denom < 1 {
			denom = 1
		}
		benefit := (targetDemand - originDemand) / denom
		if benefit <= benefitThreshold {
			continue
		}
		out = append(out, Recommendation{Unit: unit, TargetLocationID: target, Benefit: benefit, Path: path})
		r.log.Debugw("reposition recommended", map[string]any{
			"unit": unit.ID, "target": target, "benefit": benefit,
		})
		for i, u := range pool {
			if u.ID == unit.ID {
				pool = append(pool[:i], pool[i+1:]...)
				break
			}
		}
	}
	return out
}

// underserved returns locations whose demand exceeds 1.5x their coverage,
// ordered by descending demand-coverage gap.
func (r *Repositioner) underserved(demandScores map[string]float64, units []model.Unit) []string {
	coverage := make(map[string]float64, len(demandScores))
	var out []string
	for id, demand := range demandScores {
		c := r.CoverageScore(id, units)
		coverage[id] = c
		if demand > c*underservedFactor {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		gi := demandScores[out[i]] - coverage[out[i]]
		gj := demandScores[out[j]] - coverage[out[j]]
		if gi != gj {
			return gi > gj
		}
		return out[i] < out[j]
	})
	return out
}

// cheapestMove selects the unit minimizing path distance to the target plus
// the opportunity cost of abandoning its current location.
func (r *Repositioner) cheapestMove(pool []model.Unit, targetID string) (model.Unit, pathfind.Result, bool) {
	var (
		best     model.Unit
		bestPath pathfind.Result
		bestCost float64
		found    bool
	)
	for _, u := range pool {
		if !u.IsAvailable() {
			continue
		}
		res, err := r.finder.FindShortestPath(r.graph, u.LocationID, targetID)
		if err != nil || !res.Valid {
			continue
		}
		cost := res.TotalDistance + opportunityCostScale*r.model.IncidentProbability(u.LocationID)
		if !found || cost < bestCost {
			best, bestPath, bestCost, found = u, res, cost, true
		}
	}
	return best, bestPath, found
}
