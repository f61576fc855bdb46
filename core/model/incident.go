package model

import "time"

// IncidentType identifies the category of an emergency.
type IncidentType int

const (
	IncidentFire IncidentType = iota
	IncidentMedical
	IncidentPolice
	IncidentRescue
	IncidentHazmat
)

// String returns a human-readable representation of the incident type.
func (t IncidentType) String() string {
	switch t {
	case IncidentFire:
		return "fire"
	case IncidentMedical:
		return "medical"
	case IncidentPolice:
		return "police"
	case IncidentRescue:
		return "rescue"
	case IncidentHazmat:
		return "hazmat"
	default:
		return "unknown"
	}
}

// Severity is an ordered incident tier. The zero value is not a valid tier.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Priority returns the integer weight used in scoring and queue ordering.
func (s Severity) Priority() int { return int(s) }

// String returns a human-readable representation of the severity tier.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// IncidentStatus tracks the lifecycle of an incident.
// Reported -> Dispatched -> (InProgress) -> Resolved, with Cancelled as an
// alternate terminal reachable from any pre-Resolved state. The dispatch
// engine itself only drives Reported, Dispatched and Resolved; the remaining
// states are set by external drivers.
type IncidentStatus int

const (
	IncidentReported IncidentStatus = iota
	IncidentDispatched
	IncidentInProgress
	IncidentResolved
	IncidentCancelled
)

// String returns a human-readable representation of the status.
func (s IncidentStatus) String() string {
	switch s {
	case IncidentReported:
		return "reported"
	case IncidentDispatched:
		return "dispatched"
	case IncidentInProgress:
		return "in_progress"
	case IncidentResolved:
		return "resolved"
	case IncidentCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Incident is a prioritized demand at a location. Locations and units are
// referenced by ID and resolved through the network graph and the engine's
// unit registry.
type Incident struct {
	ID             string
	LocationID     string
	Type           IncidentType
	Severity       Severity
	Status         IncidentStatus
	ReportedAt     time.Time
	AssignedUnitID string
}

// PriorityScore orders incidents in the dispatch queue. Higher is served
// first.
func (i Incident) PriorityScore() float64 {
	return float64(i.Severity.Priority()) * 100.0
}
