// Package analytics summarises dispatch outcomes: response distance
// statistics per severity and the fleet's load balance against demand.
package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/perds/core/model"
)

// ResponseStats aggregates a set of response distances.
type ResponseStats struct {
	Count  int
	Mean   float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	Max    float64
}

// Compute summarises the given response distances. An empty input yields the
// zero value.
func Compute(distances []float64) ResponseStats {
	if len(distances) == 0 {
		return ResponseStats{}
	}
	sorted := make([]float64, len(distances))
	copy(sorted, distances)
	sort.Float64s(sorted)

	s := ResponseStats{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:   stat.Quantile(0.9, stat.Empirical, sorted, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, sorted, nil),
		Max:   sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// BySeverity summarises response distances bucketed per severity tier.
func BySeverity(distances map[model.Severity][]float64) map[model.Severity]ResponseStats {
	out := make(map[model.Severity]ResponseStats, len(distances))
	for sev, d := range distances {
		out[sev] = Compute(d)
	}
	return out
}

// LoadBalance measures how far the fleet's placement deviates from the
// demand distribution. For each location the ideal unit count is its demand
// share times the fleet size; the result is the root mean squared deviation
// from that ideal. Zero means placement mirrors demand perfectly.
func LoadBalance(units []model.Unit, demandScores map[string]float64) float64 {
	if len(units) == 0 || len(demandScores) == 0 {
		return 0
	}
	totalDemand := 0.0
	for _, d := range demandScores {
		totalDemand += d
	}
	if totalDemand == 0 {
		return 0
	}

	placed := make(map[string]int)
	available := 0
	for _, u := range units {
		if u.IsAvailable() {
			placed[u.LocationID]++
			available++
		}
	}

	deviations := make([]float64, 0, len(demandScores))
	for id, demand := range demandScores {
		ideal := demand / totalDemand * float64(available)
		diff := float64(placed[id]) - ideal
		deviations = append(deviations, diff*diff)
	}
	return math.Sqrt(stat.Mean(deviations, nil))
}
