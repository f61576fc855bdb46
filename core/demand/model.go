// Package demand predicts where incidents will happen next. It keeps a
// per-location sliding window of recent incidents, derives demand scores from
// it and recommends relocating idle units toward underserved hotspots.
package demand

import (
	"sort"
	"sync"

	"github.com/kilianp07/perds/core/model"
)

// DefaultWindowSize is the number of recent incidents tracked per location.
const DefaultWindowSize = 100

// history is the sliding window of one location. Older entries are evicted
// FIFO once the window is full.
type history struct {
	recent        []model.Incident
	total         int
	typeCount     map[model.IncidentType]int
	severityCount map[model.Severity]int
}

func newHistory() *history {
	return &history{
		typeCount:     make(map[model.IncidentType]int),
		severityCount: make(map[model.Severity]int),
	}
}

func (h *history) add(inc model.Incident, window int) {
	h.total++
	h.recent = append(h.recent, inc)
	if len(h.recent) > window {
		h.recent = h.recent[1:]
	}
	h.typeCount[inc.Type]++
	h.severityCount[inc.Severity]++
}

// demandScore is the severity-weight sum over the window. The legacy formula
// was count * sum / count, which collapses to the plain sum; the value is
// identical.
func (h *history) demandScore() float64 {
	score := 0.0
	for _, inc := range h.recent {
		score += float64(inc.Severity.Priority())
	}
	return score
}

// Model aggregates incident history per location. It is read-mostly and safe
// for concurrent use.
type Model struct {
	mu         sync.RWMutex
	window     int
	byLocation map[string]*history
}

// NewModel creates a demand model with the default window size.
func NewModel() *Model { return NewModelWithWindow(DefaultWindowSize) }

// NewModelWithWindow creates a demand model tracking the last n incidents per
// location.
func NewModelWithWindow(n int) *Model {
	if n <= 0 {
		n = DefaultWindowSize
	}
	return &Model{window: n, byLocation: make(map[string]*history)}
}

// RecordIncident folds an incident into its location's window.
func (m *Model) RecordIncident(inc model.Incident) {
	if inc.LocationID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.byLocation[inc.LocationID]
	if !ok {
		h = newHistory()
		m.byLocation[inc.LocationID] = h
	}
	h.add(inc, m.window)
}

// DemandScore returns the demand score of one location; zero when it has no
// history.
func (m *Model) DemandScore(locationID string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.byLocation[locationID]
	if !ok {
		return 0
	}
	return h.demandScore()
}

// DemandScores returns the demand score of every tracked location.
func (m *Model) DemandScores() map[string]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]float64, len(m.byLocation))
	for id, h := range m.byLocation {
		out[id] = h.demandScore()
	}
	return out
}

// TopNByDemand returns the n locations with the highest demand score, in
// descending order. Ties break lexicographically on the location ID so the
// order is deterministic.
func (m *Model) TopNByDemand(n int) []string {
	scores := m.DemandScores()
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if n < len(ids) {
		ids = ids[:n]
	}
	return ids
}

// IncidentProbability is a crude frequency heuristic: the recent window size
// over ten, capped at one. It is not a calibrated probability.
func (m *Model) IncidentProbability(locationID string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.byLocation[locationID]
	if !ok || len(h.recent) == 0 {
		return 0
	}
	p := float64(len(h.recent)) / 10.0
	if p > 1 {
		p = 1
	}
	return p
}

// RecentCount returns the current window occupancy for a location.
func (m *Model) RecentCount(locationID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.byLocation[locationID]
	if !ok {
		return 0
	}
	return len(h.recent)
}

// TypeDistribution returns a copy of the per-type counts for a location.
func (m *Model) TypeDistribution(locationID string) map[model.IncidentType]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.byLocation[locationID]
	if !ok {
		return nil
	}
	out := make(map[model.IncidentType]int, len(h.typeCount))
	for k, v := range h.typeCount {
		out[k] = v
	}
	return out
}

// TrackedLocations returns the ids of all locations with history.
func (m *Model) TrackedLocations() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.byLocation))
	for id := range m.byLocation {
		out = append(out, id)
	}
	return out
}
