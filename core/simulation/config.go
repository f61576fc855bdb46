package simulation

import "fmt"

// Config defines the fixed-timestep simulation parameters.
type Config struct {
	Seed               int64   `json:"seed"`
	Steps              int     `json:"steps"`
	StepMinutes        int     `json:"step_minutes"`
	IncidentsPerHour   float64 `json:"incidents_per_hour"`
	ResolveProbability float64 `json:"resolve_probability"`
	// RepositionEvery triggers a demand recalculation and repositioning pass
	// every N steps. Zero disables repositioning.
	RepositionEvery int `json:"reposition_every"`
	// HotspotBias is the probability a generated incident lands on one of
	// the current top-demand locations instead of a uniform pick.
	HotspotBias float64 `json:"hotspot_bias"`
}

// SetDefaults fills zero values with a moderate load profile.
func (c *Config) SetDefaults() {
	if c.StepMinutes == 0 {
		c.StepMinutes = 5
	}
	if c.IncidentsPerHour == 0 {
		c.IncidentsPerHour = 6
	}
	if c.ResolveProbability == 0 {
		c.ResolveProbability = 0.3
	}
	if c.RepositionEvery == 0 {
		c.RepositionEvery = 12
	}
	if c.HotspotBias == 0 {
		c.HotspotBias = 0.4
	}
}

// Validate rejects out-of-range parameters.
func (c Config) Validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("simulation: steps must be >= 0, got %d", c.Steps)
	}
	if c.StepMinutes <= 0 {
		return fmt.Errorf("simulation: step_minutes must be positive, got %d", c.StepMinutes)
	}
	if c.ResolveProbability < 0 || c.ResolveProbability > 1 {
		return fmt.Errorf("simulation: resolve_probability out of [0,1]: %f", c.ResolveProbability)
	}
	if c.HotspotBias < 0 || c.HotspotBias > 1 {
		return fmt.Errorf("simulation: hotspot_bias out of [0,1]: %f", c.HotspotBias)
	}
	return nil
}
