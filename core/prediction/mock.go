package prediction

import "time"

// StaticEngine returns fixed scores per location. Used in tests and as a
// stand-in before the regressor has seen data.
type StaticEngine struct {
	Scores  map[string]float64
	Default float64
}

// PredictDemand implements Engine.
func (s StaticEngine) PredictDemand(locationID string, _ time.Time) float64 {
	if v, ok := s.Scores[locationID]; ok {
		return v
	}
	return s.Default
}
