package model

import (
	"errors"
	"math"
)

// ErrInvalidArgument reports a nil or malformed value passed to an operation
// that cannot proceed without it. Callers can detect it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// LocationKind categorises a node in the response network.
type LocationKind int

const (
	LocationDispatchCenter LocationKind = iota
	LocationCity
	LocationIncidentSite
)

// String returns a human-readable representation of the location kind.
func (k LocationKind) String() string {
	switch k {
	case LocationDispatchCenter:
		return "dispatch_center"
	case LocationCity:
		return "city"
	case LocationIncidentSite:
		return "incident_site"
	default:
		return "unknown"
	}
}

// ParseLocationKind converts a configuration string into a LocationKind.
func ParseLocationKind(s string) (LocationKind, error) {
	switch s {
	case "dispatch_center":
		return LocationDispatchCenter, nil
	case "city":
		return LocationCity, nil
	case "incident_site":
		return LocationIncidentSite, nil
	default:
		return 0, errors.New("unknown location kind: " + s)
	}
}

// Location is a node in the response network. Identity is the ID alone: two
// locations with the same ID refer to the same entity. Kind is the only field
// meant to change after construction, and only through the owning graph.
type Location struct {
	ID   string
	Name string
	X    float64
	Y    float64
	Kind LocationKind
}

// DistanceTo returns the straight-line distance between two locations.
func (l Location) DistanceTo(o Location) float64 {
	return math.Hypot(l.X-o.X, l.Y-o.Y)
}
