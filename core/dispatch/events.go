package dispatch

// DispatchedEvent is published on the bus after a successful binding.
type DispatchedEvent struct {
	Decision Decision
}

// DispatchFailedEvent is published when no capable unit exists for the
// highest-priority incident.
type DispatchFailedEvent struct {
	IncidentID string
}

// ResolvedEvent is published when an incident is closed.
type ResolvedEvent struct {
	IncidentID string
	UnitID     string
}

// RepositionedEvent is published when an idle unit is proactively relocated.
type RepositionedEvent struct {
	UnitID   string
	FromID   string
	TargetID string
}
