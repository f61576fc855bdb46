package prediction

import (
	"math"
	"testing"
	"time"
)

func TestPredictBeforeFit(t *testing.T) {
	r := NewRidgeRegressor(0.1)
	if got := r.PredictDemand("dt", time.Now()); got != 0 {
		t.Errorf("unfitted prediction = %v, want 0", got)
	}
}

func TestFitRequiresSamples(t *testing.T) {
	r := NewRidgeRegressor(0.1)
	r.Observe(Sample{LocationID: "dt", At: time.Now(), Count: 1})
	if err := r.Fit(); err == nil {
		t.Fatal("fit with too few samples should fail")
	}
}

func TestObserveIgnoresEmptyLocation(t *testing.T) {
	r := NewRidgeRegressor(0.1)
	for i := 0; i < 10; i++ {
		r.Observe(Sample{At: time.Now(), Count: 1})
	}
	if err := r.Fit(); err == nil {
		t.Fatal("anonymous samples must not count toward training")
	}
}

func TestFitAndPredictConstantDemand(t *testing.T) {
	r := NewRidgeRegressor(0.1)
	at := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 48; i++ {
		r.Observe(Sample{LocationID: "dt", At: at, Count: 5})
		at = at.Add(time.Hour)
	}
	if err := r.Fit(); err != nil {
		t.Fatalf("fit: %v", err)
	}
	got := r.PredictDemand("dt", at)
	if got <= 0 {
		t.Fatalf("prediction = %v, want positive", got)
	}
	// Steady demand of 5 should predict in that neighbourhood.
	if math.Abs(got-5) > 2.5 {
		t.Errorf("prediction = %v, want about 5", got)
	}
}

func TestHigherDemandPredictsHigher(t *testing.T) {
	r := NewRidgeRegressor(0.1)
	at := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 48; i++ {
		r.Observe(Sample{LocationID: "busy", At: at, Count: 8})
		r.Observe(Sample{LocationID: "quiet", At: at, Count: 1})
		at = at.Add(time.Hour)
	}
	if err := r.Fit(); err != nil {
		t.Fatalf("fit: %v", err)
	}
	busy := r.PredictDemand("busy", at)
	quiet := r.PredictDemand("quiet", at)
	if busy <= quiet {
		t.Errorf("busy %v should out-predict quiet %v", busy, quiet)
	}
}

func TestPredictionNeverNegative(t *testing.T) {
	r := NewRidgeRegressor(0.1)
	at := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 48; i++ {
		r.Observe(Sample{LocationID: "dt", At: at, Count: 0})
		at = at.Add(time.Hour)
	}
	if err := r.Fit(); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if got := r.PredictDemand("never-seen", at); got < 0 {
		t.Errorf("prediction = %v, must not be negative", got)
	}
}

func TestStaticEngine(t *testing.T) {
	e := &StaticEngine{Scores: map[string]float64{"dt": 3}, Default: 1}
	if got := e.PredictDemand("dt", time.Now()); got != 3 {
		t.Errorf("known location = %v, want 3", got)
	}
	if got := e.PredictDemand("elsewhere", time.Now()); got != 1 {
		t.Errorf("unknown location = %v, want default 1", got)
	}
}
