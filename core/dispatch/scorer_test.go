package dispatch

import (
	"math"
	"testing"
	"time"

	"github.com/kilianp07/perds/core/model"
	"github.com/kilianp07/perds/core/network"
	"github.com/kilianp07/perds/core/pathfind"
)

func scorerGraph(t *testing.T) *network.Graph {
	t.Helper()
	g := network.New()
	if err := g.AddEdge(loc("near", 0, 0), loc("scene", 1, 0), 1, 1); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := g.AddEdge(loc("scene", 1, 0), loc("far", 11, 0), 10, 10); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	return g
}

func TestSetWeightsNormalization(t *testing.T) {
	s := NewMultiCriteriaScorer(scorerGraph(t), pathfind.Dijkstra{})
	s.SetWeights(ScorerWeights{Distance: 2, Time: 2, Specialization: 2, Availability: 2, LoadBalance: 1, Fatigue: 1})
	w := s.Weights()
	if got := w.sum(); math.Abs(got-1) > 1e-9 {
		t.Errorf("weights sum = %v, want 1", got)
	}
	if math.Abs(w.Distance-0.2) > 1e-9 {
		t.Errorf("distance weight = %v, want 0.2", w.Distance)
	}

	// An all-zero profile is ignored.
	before := s.Weights()
	s.SetWeights(ScorerWeights{})
	if s.Weights() != before {
		t.Error("zero weights must not replace the profile")
	}
}

func TestSpecializationTiers(t *testing.T) {
	cases := []struct {
		unit model.UnitType
		inc  model.IncidentType
		want float64
	}{
		{model.UnitFireEngine, model.IncidentFire, 1.0},
		{model.UnitFireEngine, model.IncidentHazmat, 1.0},
		{model.UnitFireEngine, model.IncidentMedical, 0.6}, // fire engines assist anywhere
		{model.UnitAmbulance, model.IncidentMedical, 1.0},
		{model.UnitAmbulance, model.IncidentFire, 0.3},
		{model.UnitPoliceCar, model.IncidentPolice, 1.0},
		{model.UnitPoliceCar, model.IncidentRescue, 0.3},
		{model.UnitRescueTeam, model.IncidentRescue, 0.5}, // no declared specialisation
	}
	for _, c := range cases {
		if got := specializationScore(c.unit, c.inc); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("specialization(%v, %v) = %v, want %v", c.unit, c.inc, got, c.want)
		}
	}
}

func TestCriterionNormalization(t *testing.T) {
	if got := distanceScore(0); got != 1 {
		t.Errorf("distanceScore(0) = %v, want 1", got)
	}
	if got := distanceScore(25); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("distanceScore(25) = %v, want 0.5", got)
	}
	if got := distanceScore(1000); got != 0 {
		t.Errorf("distanceScore(1000) = %v, want 0 (capped)", got)
	}
	// 20 distance units at speed 40 is 30 minutes, the acceptable ceiling.
	if got := timeScore(20); math.Abs(got) > 1e-9 {
		t.Errorf("timeScore(20) = %v, want 0", got)
	}
	if got := availabilityScore(10); got != 0 {
		t.Errorf("availabilityScore(10) = %v, want 0", got)
	}
	if got := fatigueScore(0); got != 1 {
		t.Errorf("fatigueScore(0) = %v, want 1", got)
	}
}

func TestFindOptimalUnitPrefersCloser(t *testing.T) {
	g := scorerGraph(t)
	s := NewMultiCriteriaScorer(g, pathfind.Dijkstra{})
	inc := model.Incident{ID: "i1", LocationID: "scene", Type: model.IncidentMedical, Severity: model.SeverityMedium}
	pool := []model.Unit{
		{ID: "amb-near", Type: model.UnitAmbulance, LocationID: "near"},
		{ID: "amb-far", Type: model.UnitAmbulance, LocationID: "far"},
	}
	dec := s.FindOptimalUnit(inc, pool, nil)
	if dec == nil {
		t.Fatal("no decision")
	}
	if dec.Unit.ID != "amb-near" {
		t.Errorf("closer unit should score higher, got %s", dec.Unit.ID)
	}
	if dec.Criteria["specialization"] != 1.0 {
		t.Errorf("ambulance on medical = %v, want 1.0", dec.Criteria["specialization"])
	}
}

func TestCriticalBoost(t *testing.T) {
	g := scorerGraph(t)
	s := NewMultiCriteriaScorer(g, pathfind.Dijkstra{})
	pool := []model.Unit{{ID: "amb-near", Type: model.UnitAmbulance, LocationID: "near"}}

	med := model.Incident{ID: "m", LocationID: "scene", Type: model.IncidentMedical, Severity: model.SeverityMedium}
	crit := model.Incident{ID: "c", LocationID: "scene", Type: model.IncidentMedical, Severity: model.SeverityCritical}

	a := s.FindOptimalUnit(med, pool, nil)
	b := s.FindOptimalUnit(crit, pool, nil)
	if a == nil || b == nil {
		t.Fatal("no decision")
	}
	if math.Abs(b.TotalScore-a.TotalScore*1.2) > 1e-9 {
		t.Errorf("critical boost: %v vs %v*1.2", b.TotalScore, a.TotalScore)
	}
}

func TestFindOptimalUnitSkipsPathless(t *testing.T) {
	g := scorerGraph(t)
	g.AddLocation(loc("island", 99, 99))
	s := NewMultiCriteriaScorer(g, pathfind.Dijkstra{})
	inc := model.Incident{ID: "i1", LocationID: "scene", Type: model.IncidentMedical, Severity: model.SeverityMedium}
	pool := []model.Unit{{ID: "amb-island", Type: model.UnitAmbulance, LocationID: "island"}}
	if dec := s.FindOptimalUnit(inc, pool, nil); dec != nil {
		t.Fatalf("pathless unit must not qualify, got %+v", dec)
	}
}

func TestBatchOptimizeRemovesCommittedUnits(t *testing.T) {
	g := scorerGraph(t)
	s := NewMultiCriteriaScorer(g, pathfind.Dijkstra{})
	now := time.Now()
	incidents := []model.Incident{
		{ID: "low", LocationID: "scene", Type: model.IncidentMedical, Severity: model.SeverityLow, ReportedAt: now},
		{ID: "crit", LocationID: "scene", Type: model.IncidentMedical, Severity: model.SeverityCritical, ReportedAt: now.Add(time.Second)},
	}
	pool := []model.Unit{
		{ID: "amb-near", Type: model.UnitAmbulance, LocationID: "near"},
		{ID: "amb-far", Type: model.UnitAmbulance, LocationID: "far"},
	}

	out := s.BatchOptimize(incidents, pool, nil)
	if len(out) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(out))
	}
	// The critical incident is served first and takes the better unit.
	if out["crit"].Unit.ID != "amb-near" {
		t.Errorf("critical should take the near unit, got %s", out["crit"].Unit.ID)
	}
	if out["low"].Unit.ID != "amb-far" {
		t.Errorf("low should take the remaining unit, got %s", out["low"].Unit.ID)
	}

	// One unit, two incidents: only the higher priority is served.
	out = s.BatchOptimize(incidents, pool[:1], nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(out))
	}
	if _, ok := out["crit"]; !ok {
		t.Error("the single unit must go to the critical incident")
	}
}

func TestEngineWithScorer(t *testing.T) {
	g := scorerGraph(t)
	e := newTestEngine(t, g)
	scorer := NewMultiCriteriaScorer(g, pathfind.Dijkstra{})
	e.UseScorer(scorer)
	e.RegisterUnit(model.Unit{ID: "amb-near", Type: model.UnitAmbulance, LocationID: "near"})
	e.RegisterUnit(model.Unit{ID: "amb-far", Type: model.UnitAmbulance, LocationID: "far"})

	if err := e.ReportIncident(model.Incident{ID: "i1", LocationID: "scene", Type: model.IncidentMedical, Severity: model.SeverityHigh}); err != nil {
		t.Fatalf("report: %v", err)
	}
	dec := e.DispatchNext()
	if dec == nil || dec.Unit.ID != "amb-near" {
		t.Fatalf("scorer-backed dispatch picked %+v", dec)
	}
}
