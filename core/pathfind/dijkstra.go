package pathfind

import (
	"container/heap"
	"math"

	"github.com/kilianp07/perds/core/network"
)

// Dijkstra is the relaxation-based strategy. It settles nodes in order of
// tentative distance and stops the moment the destination is extracted.
// Complexity is O((V+E) log V).
type Dijkstra struct{}

type distItem struct {
	id   string
	dist float64
}

type distQueue []distItem

func (q distQueue) Len() int            { return len(q) }
func (q distQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q distQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x any)         { *q = append(*q, x.(distItem)) }
func (q *distQueue) Pop() any           { old := *q; n := len(old); it := old[n-1]; *q = old[:n-1]; return it }

// FindShortestPath implements Finder.
func (Dijkstra) FindShortestPath(g *network.Graph, sourceID, destID string) (Result, error) {
	if err := checkArgs(g, sourceID, destID); err != nil {
		return Result{}, err
	}
	// One snapshot per query: the whole search runs against a single
	// topology state, never a mix of pre- and post-mutation edges.
	snap := g.Snapshot()
	if !snap.Contains(sourceID) || !snap.Contains(destID) {
		return infeasibleResult(), nil
	}

	dist := make(map[string]float64, snap.LocationCount())
	for _, id := range snap.LocationIDs() {
		dist[id] = math.Inf(1)
	}
	dist[sourceID] = 0

	prev := make(map[string]string)
	settled := make(map[string]bool)
	pq := &distQueue{{id: sourceID, dist: 0}}

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(distItem)
		// Stale entries are tolerated in the queue and skipped lazily.
		if settled[cur.id] {
			continue
		}
		settled[cur.id] = true
		if cur.id == destID {
			break
		}
		for _, e := range snap.Neighbors(cur.id) {
			w := e.EffectiveWeight()
			if math.IsInf(w, 1) {
				continue // blocked edges are never relaxed
			}
			if settled[e.To] {
				continue
			}
			if nd := dist[cur.id] + w; nd < dist[e.To] {
				dist[e.To] = nd
				prev[e.To] = cur.id
				heap.Push(pq, distItem{id: e.To, dist: nd})
			}
		}
	}

	return reconstruct(prev, sourceID, destID, dist[destID]), nil
}

// DistancesFrom computes shortest distances from source to every known
// location without early termination. Unreachable locations carry the
// infeasible sentinel. Used by demand and coverage calculations.
func (Dijkstra) DistancesFrom(g *network.Graph, sourceID string) map[string]float64 {
	snap := g.Snapshot()
	dist := make(map[string]float64, snap.LocationCount())
	for _, id := range snap.LocationIDs() {
		dist[id] = math.Inf(1)
	}
	if _, ok := dist[sourceID]; !ok {
		return dist
	}
	dist[sourceID] = 0

	settled := make(map[string]bool)
	pq := &distQueue{{id: sourceID, dist: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(distItem)
		if settled[cur.id] {
			continue
		}
		settled[cur.id] = true
		for _, e := range snap.Neighbors(cur.id) {
			w := e.EffectiveWeight()
			if math.IsInf(w, 1) || settled[e.To] {
				continue
			}
			if nd := dist[cur.id] + w; nd < dist[e.To] {
				dist[e.To] = nd
				heap.Push(pq, distItem{id: e.To, dist: nd})
			}
		}
	}
	return dist
}
