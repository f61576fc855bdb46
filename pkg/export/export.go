// Package export serialises simulation reports and repositioning
// recommendations for downstream analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/kilianp07/perds/core/demand"
	"github.com/kilianp07/perds/core/model"
	"github.com/kilianp07/perds/core/simulation"
)

// reportSummary is the flattened JSON form of a simulation report.
type reportSummary struct {
	Steps         int     `json:"steps"`
	Reported      int     `json:"reported"`
	Dispatched    int     `json:"dispatched"`
	Resolved      int     `json:"resolved"`
	Repositioned  int     `json:"repositioned"`
	StarvedCycles int     `json:"starved_cycles"`
	Backlog       int     `json:"backlog"`
	MeanDistance  float64 `json:"mean_distance"`
	P90Distance   float64 `json:"p90_distance"`
	P99Distance   float64 `json:"p99_distance"`
	MaxDistance   float64 `json:"max_distance"`
}

// WriteReportJSON writes the run summary to w in JSON format.
func WriteReportJSON(w io.Writer, r *simulation.Report) error {
	stats := r.Stats()
	enc := json.NewEncoder(w)
	return enc.Encode(reportSummary{
		Steps:         r.Steps,
		Reported:      r.Reported,
		Dispatched:    r.Dispatched,
		Resolved:      r.Resolved,
		Repositioned:  r.Repositioned,
		StarvedCycles: r.StarvedCycles,
		Backlog:       r.Backlog,
		MeanDistance:  stats.Mean,
		P90Distance:   stats.P90,
		P99Distance:   stats.P99,
		MaxDistance:   stats.Max,
	})
}

// WriteDistancesCSV writes per-severity distance statistics to w.
func WriteDistancesCSV(w io.Writer, r *simulation.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"severity", "count", "mean", "p50", "p90", "p99", "max"}); err != nil {
		return err
	}
	bySev := r.StatsBySeverity()
	sevs := make([]model.Severity, 0, len(bySev))
	for sev := range bySev {
		sevs = append(sevs, sev)
	}
	sort.Slice(sevs, func(i, j int) bool { return sevs[i] < sevs[j] })
	for _, sev := range sevs {
		stats := bySev[sev]
		rec := []string{
			sev.String(),
			strconv.Itoa(stats.Count),
			formatFloat(stats.Mean),
			formatFloat(stats.P50),
			formatFloat(stats.P90),
			formatFloat(stats.P99),
			formatFloat(stats.Max),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecommendationsCSV writes repositioning recommendations to w.
func WriteRecommendationsCSV(w io.Writer, recs []demand.Recommendation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"unit_id", "target_location", "benefit", "distance"}); err != nil {
		return err
	}
	for _, rec := range recs {
		row := []string{
			rec.Unit.ID,
			rec.TargetLocationID,
			formatFloat(rec.Benefit),
			formatFloat(rec.Path.TotalDistance),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
