package config

import (
	"fmt"

	"github.com/kilianp07/perds/core/model"
)

// UnitSeed declares one response unit of the starting fleet.
type UnitSeed struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	LocationID string `json:"location_id"`
}

// BuildFleet converts the seeds into units, validating against the known
// location ids.
func BuildFleet(seeds []UnitSeed, knownLocation func(string) bool) ([]model.Unit, error) {
	units := make([]model.Unit, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		if s.ID == "" {
			return nil, fmt.Errorf("fleet: unit with empty id")
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("fleet: duplicate unit id %s", s.ID)
		}
		seen[s.ID] = struct{}{}
		t, err := model.ParseUnitType(s.Type)
		if err != nil {
			return nil, fmt.Errorf("fleet: unit %s: %w", s.ID, err)
		}
		if knownLocation != nil && !knownLocation(s.LocationID) {
			return nil, fmt.Errorf("fleet: unit %s stationed at unknown location %s", s.ID, s.LocationID)
		}
		units = append(units, model.Unit{
			ID:         s.ID,
			Name:       s.Name,
			Type:       t,
			LocationID: s.LocationID,
			Status:     model.UnitAvailable,
		})
	}
	return units, nil
}
