package pathfind

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/kilianp07/perds/core/model"
	"github.com/kilianp07/perds/core/network"
)

func loc(id string, x, y float64) model.Location {
	return model.Location{ID: id, Name: id, X: x, Y: y}
}

// triangleGraph: l1-l2 (1.4), l2-l3 (1.4), l1-l3 (2.0). The direct l1-l3
// road is cheaper than the detour via l2 (2.8).
func triangleGraph(t *testing.T) *network.Graph {
	t.Helper()
	g := network.New()
	l1, l2, l3 := loc("l1", 0, 0), loc("l2", 1, 0), loc("l3", 1, 1)
	for _, e := range []struct {
		a, b model.Location
		w    float64
	}{
		{l1, l2, 1.4},
		{l2, l3, 1.4},
		{l1, l3, 2.0},
	} {
		if err := g.AddEdge(e.a, e.b, e.w, e.w); err != nil {
			t.Fatalf("add edge: %v", err)
		}
	}
	return g
}

func finders() map[string]Finder {
	return map[string]Finder{"dijkstra": Dijkstra{}, "astar": AStar{}}
}

func TestFindShortestPathDirect(t *testing.T) {
	g := triangleGraph(t)
	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			res, err := f.FindShortestPath(g, "l1", "l3")
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if !res.Valid {
				t.Fatal("expected a valid result")
			}
			if res.TotalDistance != 2.0 {
				t.Errorf("total = %v, want 2.0", res.TotalDistance)
			}
			if len(res.Path) != 2 || res.Path[0] != "l1" || res.Path[1] != "l3" {
				t.Errorf("path = %v, want [l1 l3]", res.Path)
			}
		})
	}
}

func TestSourceEqualsDestination(t *testing.T) {
	g := triangleGraph(t)
	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			res, err := f.FindShortestPath(g, "l2", "l2")
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if !res.Valid || res.TotalDistance != 0 {
				t.Fatalf("self route should be valid with cost 0, got %+v", res)
			}
			if len(res.Path) != 1 || res.Path[0] != "l2" {
				t.Errorf("path = %v, want [l2]", res.Path)
			}
		})
	}
}

func TestInvalidArguments(t *testing.T) {
	g := triangleGraph(t)
	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			if _, err := f.FindShortestPath(nil, "l1", "l2"); !errors.Is(err, model.ErrInvalidArgument) {
				t.Errorf("nil graph: expected ErrInvalidArgument got %v", err)
			}
			if _, err := f.FindShortestPath(g, "", "l2"); !errors.Is(err, model.ErrInvalidArgument) {
				t.Errorf("empty source: expected ErrInvalidArgument got %v", err)
			}
		})
	}
}

func TestAbsentEndpointsAreInfeasibleNotError(t *testing.T) {
	g := triangleGraph(t)
	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			res, err := f.FindShortestPath(g, "l1", "nowhere")
			if err != nil {
				t.Fatalf("absence must not be an error: %v", err)
			}
			if res.Valid {
				t.Fatal("expected invalid result")
			}
			if !math.IsInf(res.TotalDistance, 1) {
				t.Errorf("total = %v, want +Inf", res.TotalDistance)
			}
		})
	}
}

func TestDisconnectedDestination(t *testing.T) {
	g := triangleGraph(t)
	g.AddLocation(loc("island", 50, 50))
	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			res, err := f.FindShortestPath(g, "l1", "island")
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if res.Valid || !math.IsInf(res.TotalDistance, 1) {
				t.Fatalf("disconnected destination should be infeasible, got %+v", res)
			}
		})
	}
}

func TestBlockedSoleEdge(t *testing.T) {
	g := network.New()
	if err := g.AddEdge(loc("a", 0, 0), loc("b", 1, 0), 1, 1); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := g.SetBlocked("a", "b", true); err != nil {
		t.Fatalf("block: %v", err)
	}
	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			res, err := f.FindShortestPath(g, "a", "b")
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if res.Valid {
				t.Fatal("blocked sole edge should make the destination unreachable")
			}
		})
	}
}

func TestCongestionReroutes(t *testing.T) {
	g := triangleGraph(t)
	// Make the direct road slower than the detour: 2.0 * 2 = 4.0 > 2.8.
	if err := g.SetCongestion("l1", "l3", 2.0); err != nil {
		t.Fatalf("congestion: %v", err)
	}
	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			res, err := f.FindShortestPath(g, "l1", "l3")
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if !res.Valid || math.Abs(res.TotalDistance-2.8) > 1e-9 {
				t.Fatalf("expected detour cost 2.8, got %+v", res)
			}
			if len(res.Path) != 3 || res.Path[1] != "l2" {
				t.Errorf("path = %v, want detour via l2", res.Path)
			}
		})
	}
}

func TestLongChain(t *testing.T) {
	g := network.New()
	const n = 1000
	prev := loc("n0", 0, 0)
	for i := 1; i < n; i++ {
		next := loc(fmt.Sprintf("n%d", i), float64(i), 0)
		if err := g.AddEdge(prev, next, 1, 1); err != nil {
			t.Fatalf("add edge: %v", err)
		}
		prev = next
	}
	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			res, err := f.FindShortestPath(g, "n0", "n999")
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if !res.Valid || res.TotalDistance != float64(n-1) {
				t.Fatalf("expected cost %d, got %+v", n-1, res)
			}
			if len(res.Path) != n {
				t.Errorf("path length = %d, want %d", len(res.Path), n)
			}
		})
	}
}

// Both strategies must agree on totals when the heuristic is admissible,
// congestion included.
func TestDijkstraAStarAgreement(t *testing.T) {
	g := triangleGraph(t)
	if err := g.SetCongestion("l2", "l3", 1.8); err != nil {
		t.Fatalf("congestion: %v", err)
	}
	pairs := [][2]string{{"l1", "l2"}, {"l1", "l3"}, {"l2", "l3"}, {"l3", "l1"}}
	for _, p := range pairs {
		d, err := Dijkstra{}.FindShortestPath(g, p[0], p[1])
		if err != nil {
			t.Fatalf("dijkstra %v: %v", p, err)
		}
		a, err := AStar{}.FindShortestPath(g, p[0], p[1])
		if err != nil {
			t.Fatalf("astar %v: %v", p, err)
		}
		if d.Valid != a.Valid || math.Abs(d.TotalDistance-a.TotalDistance) > 1e-9 {
			t.Errorf("%v: dijkstra %v vs astar %v", p, d.TotalDistance, a.TotalDistance)
		}
	}
}

// Queries racing closure toggles must each observe one coherent topology:
// either the direct road (cost 1) or the detour (cost 10), never a mix of
// pre- and post-mutation edges.
func TestConcurrentQueriesSeeConsistentTopology(t *testing.T) {
	g := network.New()
	if err := g.AddEdge(loc("a", 0, 0), loc("b", 1, 0), 1, 1); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := g.AddEdge(loc("a", 0, 0), loc("c", 0.5, 2), 5, 5); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := g.AddEdge(loc("c", 0.5, 2), loc("b", 1, 0), 5, 5); err != nil {
		t.Fatalf("add edge: %v", err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		blocked := false
		for {
			select {
			case <-stop:
				return
			default:
			}
			blocked = !blocked
			if err := g.SetBlocked("a", "b", blocked); err != nil {
				t.Errorf("toggle closure: %v", err)
				return
			}
		}
	}()

	for name, f := range finders() {
		for i := 0; i < 200; i++ {
			res, err := f.FindShortestPath(g, "a", "b")
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if !res.Valid {
				t.Fatalf("%s: the detour keeps b reachable, got %+v", name, res)
			}
			direct := math.Abs(res.TotalDistance-1) < 1e-9
			detour := math.Abs(res.TotalDistance-10) < 1e-9
			if !direct && !detour {
				t.Fatalf("%s: cost %v matches no single topology (want 1 or 10)", name, res.TotalDistance)
			}
		}
	}
	close(stop)
	wg.Wait()
}

func TestDistancesFrom(t *testing.T) {
	g := triangleGraph(t)
	g.AddLocation(loc("island", 50, 50))
	dist := Dijkstra{}.DistancesFrom(g, "l1")
	if dist["l1"] != 0 {
		t.Errorf("self distance = %v, want 0", dist["l1"])
	}
	if dist["l2"] != 1.4 || dist["l3"] != 2.0 {
		t.Errorf("distances = %v", dist)
	}
	if !math.IsInf(dist["island"], 1) {
		t.Errorf("unreachable should carry +Inf, got %v", dist["island"])
	}
}
