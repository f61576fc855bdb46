// Package dispatch binds incoming prioritized incidents to mobile response
// units. The engine keeps a priority queue of pending incidents and a unit
// registry, selects units through a path-distance ratio or through the
// multi-criteria scorer, and serializes every mutating operation behind a
// single mutex so a unit is never bound to two incidents at once.
package dispatch
