// Package network models the response road network as a weighted directed
// graph. Roads are inserted as undirected links (two directed edges with
// identical weights) but congestion and closures are applied per direction,
// so an asymmetric closure is expressed by mutating one direction only.
package network

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/kilianp07/perds/core/model"
)

// ErrNotFound reports an unknown location or edge reference in a mutation
// call. Lookups never return it; they report absence through their results.
var ErrNotFound = errors.New("network: not found")

// Edge is a directed weighted link between two locations, owned exclusively
// by the graph it belongs to.
type Edge struct {
	From       string
	To         string
	Distance   float64
	TravelTime float64
	Congestion float64
	Blocked    bool
}

// EffectiveWeight is the travel time scaled by congestion, or +Inf when the
// edge is blocked.
func (e Edge) EffectiveWeight() float64 {
	if e.Blocked {
		return math.Inf(1)
	}
	return e.TravelTime * e.Congestion
}

// Graph owns the canonical location table and the adjacency lists. All reads
// and writes go through a readers-writer lock. Single lookups are consistent
// on their own; whole path queries take a Snapshot so the entire search
// observes one topology state even while mutations land concurrently.
type Graph struct {
	mu        sync.RWMutex
	locations map[string]model.Location
	adjacency map[string][]*Edge
	edges     int // directed edge count
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		locations: make(map[string]model.Location),
		adjacency: make(map[string][]*Edge),
	}
}

// AddLocation registers a location. Registration is idempotent by ID: a
// second add with an already-known ID is a no-op and the first registration
// wins.
func (g *Graph) AddLocation(loc model.Location) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addLocationLocked(loc)
}

func (g *Graph) addLocationLocked(loc model.Location) {
	if _, ok := g.locations[loc.ID]; ok {
		return
	}
	g.locations[loc.ID] = loc
	g.adjacency[loc.ID] = nil
}

// AddEdge inserts an undirected road between src and dst as two directed
// edges with identical weights. Unknown endpoints are registered on the fly.
// Negative distance or travel time is rejected.
func (g *Graph) AddEdge(src, dst model.Location, distance, travelTime float64) error {
	if distance < 0 || travelTime < 0 {
		return fmt.Errorf("network: edge %s->%s with negative weight: %w", src.ID, dst.ID, model.ErrInvalidArgument)
	}
	if src.ID == "" || dst.ID == "" {
		return fmt.Errorf("network: edge endpoint without id: %w", model.ErrInvalidArgument)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addLocationLocked(src)
	g.addLocationLocked(dst)
	g.adjacency[src.ID] = append(g.adjacency[src.ID], &Edge{From: src.ID, To: dst.ID, Distance: distance, TravelTime: travelTime, Congestion: 1.0})
	g.adjacency[dst.ID] = append(g.adjacency[dst.ID], &Edge{From: dst.ID, To: src.ID, Distance: distance, TravelTime: travelTime, Congestion: 1.0})
	g.edges += 2
	return nil
}

func (g *Graph) findEdgeLocked(srcID, dstID string) (*Edge, error) {
	if _, ok := g.locations[srcID]; !ok {
		return nil, fmt.Errorf("location %q: %w", srcID, ErrNotFound)
	}
	if _, ok := g.locations[dstID]; !ok {
		return nil, fmt.Errorf("location %q: %w", dstID, ErrNotFound)
	}
	for _, e := range g.adjacency[srcID] {
		if e.To == dstID {
			return e, nil
		}
	}
	return nil, fmt.Errorf("edge %s->%s: %w", srcID, dstID, ErrNotFound)
}

// UpdateEdgeWeight sets the travel time of the directed edge src->dst.
// Only that direction is touched; callers wanting a symmetric update mutate
// both directions explicitly. Unknown ids or a missing edge yield
// ErrNotFound.
func (g *Graph) UpdateEdgeWeight(srcID, dstID string, travelTime float64) error {
	if travelTime < 0 {
		return fmt.Errorf("network: negative travel time: %w", model.ErrInvalidArgument)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	e, err := g.findEdgeLocked(srcID, dstID)
	if err != nil {
		return err
	}
	e.TravelTime = travelTime
	return nil
}

// SetBlocked marks or clears the closure flag on the directed edge src->dst.
// Unknown ids or a missing edge yield ErrNotFound.
func (g *Graph) SetBlocked(srcID, dstID string, blocked bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, err := g.findEdgeLocked(srcID, dstID)
	if err != nil {
		return err
	}
	e.Blocked = blocked
	return nil
}

// SetCongestion sets the congestion multiplier on the directed edge src->dst.
// Factors below zero are rejected; 1.0 is free flow.
func (g *Graph) SetCongestion(srcID, dstID string, factor float64) error {
	if factor < 0 {
		return fmt.Errorf("network: negative congestion factor: %w", model.ErrInvalidArgument)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	e, err := g.findEdgeLocked(srcID, dstID)
	if err != nil {
		return err
	}
	e.Congestion = factor
	return nil
}

// Neighbors returns a snapshot of the outgoing edges of a location, in
// insertion order. Unknown locations yield an empty slice, never an error.
func (g *Graph) Neighbors(locID string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	adj := g.adjacency[locID]
	out := make([]Edge, len(adj))
	for i, e := range adj {
		out[i] = *e
	}
	return out
}

// Location looks up a location by ID.
func (g *Graph) Location(id string) (model.Location, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	loc, ok := g.locations[id]
	return loc, ok
}

// Contains reports whether a location ID is known.
func (g *Graph) Contains(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.locations[id]
	return ok
}

// SetLocationKind reclassifies a location, e.g. a city that becomes an
// incident site. It reports whether the location exists.
func (g *Graph) SetLocationKind(id string, kind model.LocationKind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	loc, ok := g.locations[id]
	if !ok {
		return false
	}
	loc.Kind = kind
	g.locations[id] = loc
	return true
}

// Locations returns a snapshot of all known locations in unspecified order.
func (g *Graph) Locations() []model.Location {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]model.Location, 0, len(g.locations))
	for _, loc := range g.locations {
		out = append(out, loc)
	}
	return out
}

// LocationIDs returns a snapshot of all known location ids.
func (g *Graph) LocationIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.locations))
	for id := range g.locations {
		out = append(out, id)
	}
	return out
}

// LocationCount returns the number of registered locations.
func (g *Graph) LocationCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.locations)
}

// EdgeCount returns the number of undirected roads, counting each pair of
// directed edges once.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges / 2
}

// Snapshot is an immutable copy of the topology taken in one critical
// section. Later mutations of the graph never show through it, so a path
// query running against a snapshot sees a single consistent state from
// start to finish.
type Snapshot struct {
	locations map[string]model.Location
	adjacency map[string][]Edge
}

// Snapshot copies the location table and all edges under a single read lock.
func (g *Graph) Snapshot() *Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s := &Snapshot{
		locations: make(map[string]model.Location, len(g.locations)),
		adjacency: make(map[string][]Edge, len(g.adjacency)),
	}
	for id, loc := range g.locations {
		s.locations[id] = loc
	}
	for id, adj := range g.adjacency {
		edges := make([]Edge, len(adj))
		for i, e := range adj {
			edges[i] = *e
		}
		s.adjacency[id] = edges
	}
	return s
}

// Contains reports whether a location ID was known at snapshot time.
func (s *Snapshot) Contains(id string) bool {
	_, ok := s.locations[id]
	return ok
}

// Location looks up a location by ID.
func (s *Snapshot) Location(id string) (model.Location, bool) {
	loc, ok := s.locations[id]
	return loc, ok
}

// Neighbors returns the outgoing edges of a location as captured at snapshot
// time, in insertion order. Callers must not mutate the returned slice.
func (s *Snapshot) Neighbors(locID string) []Edge {
	return s.adjacency[locID]
}

// LocationIDs returns all location ids captured at snapshot time.
func (s *Snapshot) LocationIDs() []string {
	out := make([]string, 0, len(s.locations))
	for id := range s.locations {
		out = append(out, id)
	}
	return out
}

// LocationCount returns the number of captured locations.
func (s *Snapshot) LocationCount() int {
	return len(s.locations)
}
