// Package pathfind provides two interchangeable shortest-path strategies over
// the response network: a relaxation-based Dijkstra and a heuristic-guided A*.
// Both relax the congestion-scaled effective weight of each edge, so they
// return the same total distance whenever the A* heuristic is admissible.
//
// The A* heuristic is the raw straight-line distance between coordinates. It
// is only admissible when no edge's travel time undercuts the coordinate
// distance it spans; on networks where that does not hold A* may settle for a
// route longer than Dijkstra's.
package pathfind

import (
	"fmt"
	"math"

	"github.com/kilianp07/perds/core/model"
	"github.com/kilianp07/perds/core/network"
)

// Result is the outcome of a shortest-path query. A result is valid iff the
// reconstructed path is non-empty and starts at the source; an invalid result
// carries the infeasible sentinel (+Inf) as its distance.
type Result struct {
	Valid         bool
	TotalDistance float64
	Path          []string
}

// Infeasible is the distance reported for unreachable destinations. It is
// deliberately distinct from zero, which is a legitimate distance.
func Infeasible() float64 { return math.Inf(1) }

func infeasibleResult() Result {
	return Result{Valid: false, TotalDistance: Infeasible()}
}

// Finder is a shortest-path strategy over a network graph.
//
// A nil graph or empty endpoint id fails with model.ErrInvalidArgument.
// Endpoints absent from the graph, or a destination that cannot be reached,
// produce an invalid Result instead: infeasibility is data, not an error.
type Finder interface {
	FindShortestPath(g *network.Graph, sourceID, destID string) (Result, error)
}

func checkArgs(g *network.Graph, sourceID, destID string) error {
	if g == nil {
		return fmt.Errorf("pathfind: nil graph: %w", model.ErrInvalidArgument)
	}
	if sourceID == "" || destID == "" {
		return fmt.Errorf("pathfind: empty endpoint id: %w", model.ErrInvalidArgument)
	}
	return nil
}

// reconstruct walks the predecessor chain backwards from dest and validates
// that it reaches the source. A chain that never reaches back to the source
// is how a disconnected destination shows up.
func reconstruct(prev map[string]string, sourceID, destID string, total float64) Result {
	var path []string
	cur := destID
	for {
		path = append(path, cur)
		p, ok := prev[cur]
		if !ok {
			break
		}
		cur = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	if len(path) == 0 || path[0] != sourceID || math.IsInf(total, 1) {
		return infeasibleResult()
	}
	return Result{Valid: true, TotalDistance: total, Path: path}
}
