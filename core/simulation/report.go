package simulation

import (
	"github.com/kilianp07/perds/core/analytics"
	"github.com/kilianp07/perds/core/model"
)

// Report aggregates the outcome of one simulation run.
type Report struct {
	Steps               int
	Reported            int
	Dispatched          int
	Resolved            int
	Repositioned        int
	StarvedCycles       int
	Backlog             int
	Distances           []float64
	DistancesBySeverity map[model.Severity][]float64
}

func newReport(steps int) *Report {
	return &Report{
		Steps:               steps,
		DistancesBySeverity: make(map[model.Severity][]float64),
	}
}

// Stats summarises all response distances of the run.
func (r *Report) Stats() analytics.ResponseStats {
	return analytics.Compute(r.Distances)
}

// StatsBySeverity summarises response distances per severity tier.
func (r *Report) StatsBySeverity() map[model.Severity]analytics.ResponseStats {
	return analytics.BySeverity(r.DistancesBySeverity)
}
