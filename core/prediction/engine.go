// Package prediction hosts the secondary, learning-based demand model. It is
// independent of the sliding-window model in core/demand and is not consumed
// by the repositioner; drivers use it for longer-horizon forecasts.
package prediction

import "time"

// Engine forecasts incident demand for a location.
type Engine interface {
	// PredictDemand returns the expected incident intensity at the location
	// around time t. Values are unitless scores, not probabilities.
	PredictDemand(locationID string, t time.Time) float64
}
