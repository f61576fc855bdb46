package config

// DemandConfig tunes the historical demand model.
type DemandConfig struct {
	// WindowSize caps the number of recent incidents kept per location.
	WindowSize int `json:"window_size"`
	// RidgeLambda is the regularisation strength of the learning predictor.
	// Zero selects the default.
	RidgeLambda float64 `json:"ridge_lambda"`
}

// SetDefaults applies the standard window.
func (c *DemandConfig) SetDefaults() {
	if c.WindowSize == 0 {
		c.WindowSize = 100
	}
}
