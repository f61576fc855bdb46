package prediction

import (
	"errors"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"
)

// featureCount is bias + hour-of-day + day-of-week + historical frequency +
// recent trend.
const featureCount = 5

// perLocationWindow bounds the samples kept per location for the frequency
// and trend features.
const perLocationWindow = 48

// Sample is one observed demand reading: how many incidents a location saw in
// an observation interval ending at At.
type Sample struct {
	LocationID string
	At         time.Time
	Count      float64
}

// RidgeRegressor fits a regularized linear model over temporal features and
// predicts per-location demand. Training solves the normal equations
// (XᵀX + λI)w = Xᵀy, so refitting after each observation batch stays cheap
// at these feature counts.
type RidgeRegressor struct {
	mu      sync.Mutex
	lambda  float64
	weights []float64
	recent  map[string][]Sample
	samples []Sample
	maxKeep int
}

// NewRidgeRegressor creates an untrained regressor. lambda <= 0 falls back
// to a mild default regularization.
func NewRidgeRegressor(lambda float64) *RidgeRegressor {
	if lambda <= 0 {
		lambda = 0.1
	}
	return &RidgeRegressor{
		lambda:  lambda,
		recent:  make(map[string][]Sample),
		maxKeep: 2048,
	}
}

// Observe records a sample and keeps the per-location window bounded.
func (r *RidgeRegressor) Observe(s Sample) {
	if s.LocationID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	w := append(r.recent[s.LocationID], s)
	if len(w) > perLocationWindow {
		w = w[1:]
	}
	r.recent[s.LocationID] = w
	r.samples = append(r.samples, s)
	if len(r.samples) > r.maxKeep {
		r.samples = r.samples[len(r.samples)-r.maxKeep:]
	}
}

// Fit retrains the model on all retained samples.
func (r *RidgeRegressor) Fit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.samples)
	if n < featureCount {
		return errors.New("prediction: not enough samples to fit")
	}

	x := mat.NewDense(n, featureCount, nil)
	y := mat.NewVecDense(n, nil)
	for i, s := range r.samples {
		f := r.featuresLocked(s.LocationID, s.At)
		x.SetRow(i, f)
		y.SetVec(i, s.Count)
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for i := 0; i < featureCount; i++ {
		xtx.Set(i, i, xtx.At(i, i)+r.lambda)
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var w mat.VecDense
	if err := w.SolveVec(&xtx, &xty); err != nil {
		return err
	}
	r.weights = make([]float64, featureCount)
	for i := range r.weights {
		r.weights[i] = w.AtVec(i)
	}
	return nil
}

// PredictDemand implements Engine. An unfitted model predicts zero.
func (r *RidgeRegressor) PredictDemand(locationID string, t time.Time) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.weights == nil {
		return 0
	}
	f := r.featuresLocked(locationID, t)
	out := 0.0
	for i, w := range r.weights {
		out += w * f[i]
	}
	if out < 0 {
		return 0
	}
	return out
}

// featuresLocked builds the feature vector for a location at time t using
// the location's retained window.
func (r *RidgeRegressor) featuresLocked(locationID string, t time.Time) []float64 {
	window := r.recent[locationID]
	freq := 0.0
	trend := 0.0
	if len(window) > 0 {
		sum := 0.0
		for _, s := range window {
			sum += s.Count
		}
		freq = sum / float64(len(window)) / 10.0
		if freq > 1 {
			freq = 1
		}
		trend = math.Tanh(window[len(window)-1].Count - window[0].Count)
	}
	return []float64{
		1,
		float64(t.Hour()) / 24.0,
		float64(t.Weekday()) / 7.0,
		freq,
		trend,
	}
}
