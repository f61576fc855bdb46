package dispatch

import (
	"sort"

	"github.com/kilianp07/perds/core/model"
	"github.com/kilianp07/perds/core/network"
	"github.com/kilianp07/perds/core/pathfind"
)

// Normalization ceilings for the distance and time criteria, and the
// workload ceilings for the availability and fatigue criteria.
const (
	maxUsefulDistance  = 50.0 // distance units
	avgSpeed           = 40.0 // distance units per hour
	maxAcceptableTime  = 30.0 // minutes
	maxShiftWorkload   = 10.0
	maxFatigueWorkload = 5.0
	criticalBoost      = 1.2
)

// ScorerWeights holds the relative importance of the six criteria. Weights
// are auto-normalized to sum to one when applied.
type ScorerWeights struct {
	Distance       float64 `json:"distance"`
	Time           float64 `json:"time"`
	Specialization float64 `json:"specialization"`
	Availability   float64 `json:"availability"`
	LoadBalance    float64 `json:"load_balance"`
	Fatigue        float64 `json:"fatigue"`
}

func (w ScorerWeights) sum() float64 {
	return w.Distance + w.Time + w.Specialization + w.Availability + w.LoadBalance + w.Fatigue
}

// DefaultScorerWeights returns the stock weight profile.
func DefaultScorerWeights() ScorerWeights {
	return ScorerWeights{
		Distance:       0.30,
		Time:           0.25,
		Specialization: 0.20,
		Availability:   0.15,
		LoadBalance:    0.07,
		Fatigue:        0.03,
	}
}

// specializations lists the incident types each unit class is specialised
// for. Unit classes absent from the table have no declared specialisation and
// score neutral.
var specializations = map[model.UnitType]map[model.IncidentType]bool{
	model.UnitFireEngine: {model.IncidentFire: true, model.IncidentHazmat: true, model.IncidentRescue: true},
	model.UnitAmbulance:  {model.IncidentMedical: true, model.IncidentRescue: true},
	model.UnitPoliceCar:  {model.IncidentPolice: true, model.IncidentHazmat: true},
}

// canAssist reports whether a unit class can assist on an incident type
// outside its specialisation.
func canAssist(ut model.UnitType, it model.IncidentType) bool {
	switch ut {
	case model.UnitFireEngine:
		return true
	case model.UnitAmbulance:
		return it == model.IncidentMedical || it == model.IncidentRescue
	case model.UnitPoliceCar:
		return it == model.IncidentPolice || it == model.IncidentHazmat
	default:
		return false
	}
}

// ScoredDecision is a candidate binding with its criteria breakdown.
type ScoredDecision struct {
	Unit       model.Unit
	Incident   model.Incident
	TotalScore float64
	Criteria   map[string]float64
	Path       pathfind.Result
}

// MultiCriteriaScorer is the higher-fidelity unit-selection strategy. It
// scores candidates on six independently normalized criteria and picks the
// highest weighted sum. Batch assignment is a greedy approximation by
// design: committed units leave the pool before the next incident is scored,
// and no exact bipartite matching is attempted.
type MultiCriteriaScorer struct {
	graph   *network.Graph
	finder  pathfind.Finder
	weights ScorerWeights
}

// NewMultiCriteriaScorer creates a scorer with the default weight profile.
func NewMultiCriteriaScorer(g *network.Graph, finder pathfind.Finder) *MultiCriteriaScorer {
	return &MultiCriteriaScorer{graph: g, finder: finder, weights: DefaultScorerWeights()}
}

// SetWeights replaces the weight profile. Weights are normalized to sum to
// one; an all-zero profile is ignored.
func (s *MultiCriteriaScorer) SetWeights(w ScorerWeights) {
	sum := w.sum()
	if sum <= 0 {
		return
	}
	s.weights = ScorerWeights{
		Distance:       w.Distance / sum,
		Time:           w.Time / sum,
		Specialization: w.Specialization / sum,
		Availability:   w.Availability / sum,
		LoadBalance:    w.LoadBalance / sum,
		Fatigue:        w.Fatigue / sum,
	}
}

// Weights returns the current normalized weight profile.
func (s *MultiCriteriaScorer) Weights() ScorerWeights { return s.weights }

// FindOptimalUnit scores every candidate with a valid path to the incident
// and returns the best, or nil when no candidate qualifies. The workload map
// carries per-unit dispatch counters for the availability, load-balance and
// fatigue criteria.
func (s *MultiCriteriaScorer) FindOptimalUnit(inc model.Incident, pool []model.Unit, workload map[string]int) *ScoredDecision {
	if len(pool) == 0 {
		return nil
	}
	avg := averageWorkload(pool, workload)

	var best *ScoredDecision
	for _, u := range pool {
		res, err := s.finder.FindShortestPath(s.graph, u.LocationID, inc.LocationID)
		if err != nil || !res.Valid {
			continue
		}
		criteria := map[string]float64{
			"distance":       distanceScore(res.TotalDistance),
			"time":           timeScore(res.TotalDistance),
			"specialization": specializationScore(u.Type, inc.Type),
			"availability":   availabilityScore(workload[u.ID]),
			"loadBalance":    loadBalanceScore(workload[u.ID], avg),
			"fatigue":        fatigueScore(workload[u.ID]),
		}
		total := s.weights.Distance*criteria["distance"] +
			s.weights.Time*criteria["time"] +
			s.weights.Specialization*criteria["specialization"] +
			s.weights.Availability*criteria["availability"] +
			s.weights.LoadBalance*criteria["loadBalance"] +
			s.weights.Fatigue*criteria["fatigue"]
		if inc.Severity == model.SeverityCritical {
			total *= criticalBoost
		}
		if best == nil || total > best.TotalScore {
			best = &ScoredDecision{Unit: u, Incident: inc, TotalScore: total, Criteria: criteria, Path: res}
		}
	}
	return best
}

// BatchOptimize assigns units to incidents greedily: incidents sorted by
// descending priority, each taking its best unit from the remaining pool.
// The result maps incident ID to its decision; incidents with no qualifying
// unit are absent.
func (s *MultiCriteriaScorer) BatchOptimize(incidents []model.Incident, pool []model.Unit, workload map[string]int) map[string]ScoredDecision {
	sorted := make([]model.Incident, len(incidents))
	copy(sorted, incidents)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PriorityScore() != sorted[j].PriorityScore() {
			return sorted[i].PriorityScore() > sorted[j].PriorityScore()
		}
		return sorted[i].ReportedAt.Before(sorted[j].ReportedAt)
	})

	remaining := make([]model.Unit, len(pool))
	copy(remaining, pool)

	out := make(map[string]ScoredDecision)
	for _, inc := range sorted {
		if len(remaining) == 0 {
			break
		}
		dec := s.FindOptimalUnit(inc, remaining, workload)
		if dec == nil {
			continue
		}
		out[inc.ID] = *dec
		for i, u := range remaining {
			if u.ID == dec.Unit.ID {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	return out
}

// distanceScore normalizes against the useful-distance ceiling; closer is
// higher.
func distanceScore(distance float64) float64 {
	n := distance / maxUsefulDistance
	if n > 1 {
		n = 1
	}
	return 1 - n
}

// timeScore estimates travel minutes at a fixed average speed and normalizes
// against the acceptable-time ceiling; faster is higher.
func timeScore(distance float64) float64 {
	minutes := distance / avgSpeed * 60.0
	n := minutes / maxAcceptableTime
	if n > 1 {
		n = 1
	}
	return 1 - n
}

func specializationScore(ut model.UnitType, it model.IncidentType) float64 {
	spec, ok := specializations[ut]
	if !ok {
		return 0.5
	}
	if spec[it] {
		return 1.0
	}
	if canAssist(ut, it) {
		return 0.6
	}
	return 0.3
}

func availabilityScore(workload int) float64 {
	n := float64(workload) / maxShiftWorkload
	if n > 1 {
		n = 1
	}
	return 1 - n
}

func loadBalanceScore(workload int, avg float64) float64 {
	if float64(workload) <= avg {
		return 1.0
	}
	deviation := (float64(workload) - avg) / (avg + 1)
	if deviation > 1 {
		return 0
	}
	return 1 - deviation
}

func fatigueScore(workload int) float64 {
	n := float64(workload) / maxFatigueWorkload
	if n > 1 {
		n = 1
	}
	return 1 - n
}

func averageWorkload(pool []model.Unit, workload map[string]int) float64 {
	if len(pool) == 0 {
		return 0
	}
	total := 0
	for _, u := range pool {
		total += workload[u.ID]
	}
	return float64(total) / float64(len(pool))
}
