package dispatch

import "fmt"

// Config defines dispatch-related settings.
type Config struct {
	// Strategy selects unit selection: "ratio" (distance over severity) or
	// "multi_criteria".
	Strategy string `json:"strategy"`
	// PathStrategy selects the shortest-path algorithm: "dijkstra" or
	// "astar".
	PathStrategy string        `json:"path_strategy"`
	Weights      ScorerWeights `json:"weights"`
}

// SetDefaults fills zero values with the stock strategy and weights.
func (c *Config) SetDefaults() {
	if c.Strategy == "" {
		c.Strategy = "ratio"
	}
	if c.PathStrategy == "" {
		c.PathStrategy = "dijkstra"
	}
	if c.Weights.sum() == 0 {
		c.Weights = DefaultScorerWeights()
	}
}

// Validate rejects unknown strategy names.
func (c Config) Validate() error {
	switch c.Strategy {
	case "ratio", "multi_criteria":
	default:
		return fmt.Errorf("dispatch: unknown strategy %q", c.Strategy)
	}
	switch c.PathStrategy {
	case "dijkstra", "astar":
	default:
		return fmt.Errorf("dispatch: unknown path strategy %q", c.PathStrategy)
	}
	return nil
}
