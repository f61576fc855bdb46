package model

import "errors"

// UnitType identifies the class of a mobile response unit. Each type maps
// one-to-one to the incident type it handles as primary capability.
type UnitType int

const (
	UnitFireEngine UnitType = iota
	UnitAmbulance
	UnitPoliceCar
	UnitRescueTeam
	UnitHazmatTeam
)

// String returns a human-readable representation of the unit type.
func (t UnitType) String() string {
	switch t {
	case UnitFireEngine:
		return "fire_engine"
	case UnitAmbulance:
		return "ambulance"
	case UnitPoliceCar:
		return "police_car"
	case UnitRescueTeam:
		return "rescue_team"
	case UnitHazmatTeam:
		return "hazmat_team"
	default:
		return "unknown"
	}
}

// ParseUnitType converts a configuration string into a UnitType.
func ParseUnitType(s string) (UnitType, error) {
	switch s {
	case "fire_engine":
		return UnitFireEngine, nil
	case "ambulance":
		return UnitAmbulance, nil
	case "police_car":
		return UnitPoliceCar, nil
	case "rescue_team":
		return UnitRescueTeam, nil
	case "hazmat_team":
		return UnitHazmatTeam, nil
	default:
		return 0, errors.New("unknown unit type: " + s)
	}
}

// PrimaryIncident returns the incident type this unit class is equipped for.
func (t UnitType) PrimaryIncident() IncidentType {
	switch t {
	case UnitFireEngine:
		return IncidentFire
	case UnitAmbulance:
		return IncidentMedical
	case UnitPoliceCar:
		return IncidentPolice
	case UnitRescueTeam:
		return IncidentRescue
	case UnitHazmatTeam:
		return IncidentHazmat
	default:
		return IncidentFire
	}
}

// CanRespondTo reports whether the unit class handles the given incident type
// as its primary capability.
func (t UnitType) CanRespondTo(incident IncidentType) bool {
	return t.PrimaryIncident() == incident
}

// UnitStatus tracks the operational state of a unit.
type UnitStatus int

const (
	UnitAvailable UnitStatus = iota
	UnitDispatched
	UnitOnScene
	UnitReturning
	UnitOutOfService
)

// String returns a human-readable representation of the unit status.
func (s UnitStatus) String() string {
	switch s {
	case UnitAvailable:
		return "available"
	case UnitDispatched:
		return "dispatched"
	case UnitOnScene:
		return "on_scene"
	case UnitReturning:
		return "returning"
	case UnitOutOfService:
		return "out_of_service"
	default:
		return "unknown"
	}
}

// Unit is a mobile response resource. It references its current location and
// assigned incident by ID.
type Unit struct {
	ID         string
	Name       string
	Type       UnitType
	LocationID string
	Status     UnitStatus
	IncidentID string
}

// IsAvailable reports whether the unit can be assigned to a new incident.
func (u Unit) IsAvailable() bool { return u.Status == UnitAvailable }
