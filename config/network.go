package config

import (
	"fmt"

	"github.com/kilianp07/perds/core/model"
	"github.com/kilianp07/perds/core/network"
)

// LocationSeed declares one node of the road network.
type LocationSeed struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Kind string  `json:"kind"`
}

// EdgeSeed declares one bidirectional road segment.
type EdgeSeed struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Distance   float64 `json:"distance"`
	TravelTime float64 `json:"travel_time"`
}

// NetworkConfig seeds the road network at startup.
type NetworkConfig struct {
	Locations []LocationSeed `json:"locations"`
	Edges     []EdgeSeed     `json:"edges"`
}

// Validate checks the seeds are internally consistent.
func (c NetworkConfig) Validate() error {
	ids := make(map[string]struct{}, len(c.Locations))
	for _, l := range c.Locations {
		if l.ID == "" {
			return fmt.Errorf("network: location with empty id")
		}
		if _, dup := ids[l.ID]; dup {
			return fmt.Errorf("network: duplicate location id %s", l.ID)
		}
		if l.Kind != "" {
			if _, err := model.ParseLocationKind(l.Kind); err != nil {
				return fmt.Errorf("network: location %s: %w", l.ID, err)
			}
		}
		ids[l.ID] = struct{}{}
	}
	for _, e := range c.Edges {
		if _, ok := ids[e.From]; !ok {
			return fmt.Errorf("network: edge references unknown location %s", e.From)
		}
		if _, ok := ids[e.To]; !ok {
			return fmt.Errorf("network: edge references unknown location %s", e.To)
		}
		if e.Distance < 0 || e.TravelTime < 0 {
			return fmt.Errorf("network: edge %s-%s has negative weight", e.From, e.To)
		}
	}
	return nil
}

// Build constructs the graph from the seeds.
func (c NetworkConfig) Build() (*network.Graph, error) {
	g := network.New()
	locs := make(map[string]model.Location, len(c.Locations))
	for _, l := range c.Locations {
		kind := model.LocationCity
		if l.Kind != "" {
			k, err := model.ParseLocationKind(l.Kind)
			if err != nil {
				return nil, err
			}
			kind = k
		}
		loc := model.Location{ID: l.ID, Name: l.Name, X: l.X, Y: l.Y, Kind: kind}
		g.AddLocation(loc)
		locs[l.ID] = loc
	}
	for _, e := range c.Edges {
		if err := g.AddEdge(locs[e.From], locs[e.To], e.Distance, e.TravelTime); err != nil {
			return nil, err
		}
	}
	return g, nil
}
