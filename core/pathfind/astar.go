package pathfind

import (
	"container/heap"
	"math"

	"github.com/kilianp07/perds/core/network"
)

// AStar is the heuristic-guided strategy. The open set is ordered by
// f = g + h where g is the settled-so-far cost and h the straight-line
// distance between coordinates. With an admissible heuristic it returns the
// same total distance as Dijkstra.
type AStar struct{}

type astarItem struct {
	id string
	g  float64
	f  float64
}

type astarQueue []astarItem

func (q astarQueue) Len() int            { return len(q) }
func (q astarQueue) Less(i, j int) bool  { return q[i].f < q[j].f }
func (q astarQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *astarQueue) Push(x any)         { *q = append(*q, x.(astarItem)) }
func (q *astarQueue) Pop() any           { old := *q; n := len(old); it := old[n-1]; *q = old[:n-1]; return it }

// FindShortestPath implements Finder.
func (AStar) FindShortestPath(g *network.Graph, sourceID, destID string) (Result, error) {
	if err := checkArgs(g, sourceID, destID); err != nil {
		return Result{}, err
	}
	// One snapshot per query, same discipline as Dijkstra.
	snap := g.Snapshot()
	src, okSrc := snap.Location(sourceID)
	dst, okDst := snap.Location(destID)
	if !okSrc || !okDst {
		return infeasibleResult(), nil
	}

	gScore := map[string]float64{sourceID: 0}
	cameFrom := make(map[string]string)
	closed := make(map[string]bool)

	open := &astarQueue{{id: sourceID, g: 0, f: src.DistanceTo(dst)}}
	for open.Len() > 0 {
		cur := heap.Pop(open).(astarItem)
		if cur.id == destID {
			return reconstruct(cameFrom, sourceID, destID, gScore[destID]), nil
		}
		// Lazily skip stale entries superseded by a cheaper path.
		if closed[cur.id] {
			continue
		}
		closed[cur.id] = true

		for _, e := range snap.Neighbors(cur.id) {
			w := e.EffectiveWeight()
			if math.IsInf(w, 1) || closed[e.To] {
				continue
			}
			tentative := gScore[cur.id] + w
			best, seen := gScore[e.To]
			if seen && tentative >= best {
				continue
			}
			gScore[e.To] = tentative
			cameFrom[e.To] = cur.id
			neighbor, ok := snap.Location(e.To)
			h := 0.0
			if ok {
				h = neighbor.DistanceTo(dst)
			}
			heap.Push(open, astarItem{id: e.To, g: tentative, f: tentative + h})
		}
	}

	return infeasibleResult(), nil
}
