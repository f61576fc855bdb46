package network

import (
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/perds/core/model"
)

func loc(id string, x, y float64) model.Location {
	return model.Location{ID: id, Name: id, X: x, Y: y, Kind: model.LocationCity}
}

func TestAddLocationIdempotent(t *testing.T) {
	g := New()
	g.AddLocation(loc("a", 0, 0))
	g.AddLocation(model.Location{ID: "a", Name: "renamed", X: 9, Y: 9})
	if got := g.LocationCount(); got != 1 {
		t.Fatalf("expected 1 location got %d", got)
	}
	got, ok := g.Location("a")
	if !ok {
		t.Fatal("location a missing")
	}
	if got.Name != "a" {
		t.Errorf("first registration should win, got name %q", got.Name)
	}
}

func TestAddEdgeBidirectional(t *testing.T) {
	g := New()
	if err := g.AddEdge(loc("a", 0, 0), loc("b", 3, 4), 5, 5); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if got := g.EdgeCount(); got != 1 {
		t.Fatalf("expected 1 undirected road got %d", got)
	}
	if len(g.Neighbors("a")) != 1 || len(g.Neighbors("b")) != 1 {
		t.Fatal("both directions should exist")
	}
	if g.Neighbors("a")[0].To != "b" || g.Neighbors("b")[0].To != "a" {
		t.Fatal("edge endpoints wrong")
	}
}

func TestAddEdgeRegistersEndpoints(t *testing.T) {
	g := New()
	if err := g.AddEdge(loc("a", 0, 0), loc("b", 1, 0), 1, 1); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if !g.Contains("a") || !g.Contains("b") {
		t.Fatal("endpoints should be registered on the fly")
	}
}

func TestAddEdgeNegativeWeight(t *testing.T) {
	g := New()
	err := g.AddEdge(loc("a", 0, 0), loc("b", 1, 0), -1, 1)
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument got %v", err)
	}
	err = g.AddEdge(loc("a", 0, 0), loc("b", 1, 0), 1, -1)
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument got %v", err)
	}
}

func TestMutationsUnknownEdge(t *testing.T) {
	g := New()
	g.AddLocation(loc("a", 0, 0))
	g.AddLocation(loc("b", 1, 0))

	if err := g.UpdateEdgeWeight("a", "b", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("update: expected ErrNotFound got %v", err)
	}
	if err := g.SetBlocked("a", "b", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("block: expected ErrNotFound got %v", err)
	}
	if err := g.SetCongestion("a", "missing", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("congestion: expected ErrNotFound got %v", err)
	}
}

func TestPerDirectionMutation(t *testing.T) {
	g := New()
	if err := g.AddEdge(loc("a", 0, 0), loc("b", 1, 0), 1, 10); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := g.SetCongestion("a", "b", 2.5); err != nil {
		t.Fatalf("set congestion: %v", err)
	}
	if err := g.SetBlocked("b", "a", true); err != nil {
		t.Fatalf("set blocked: %v", err)
	}

	ab := g.Neighbors("a")[0]
	ba := g.Neighbors("b")[0]
	if got := ab.EffectiveWeight(); got != 25 {
		t.Errorf("a->b effective weight = %v, want 25", got)
	}
	if !math.IsInf(ba.EffectiveWeight(), 1) {
		t.Errorf("b->a should be blocked, weight = %v", ba.EffectiveWeight())
	}
	if ab.Blocked {
		t.Error("a->b must not inherit the b->a closure")
	}
}

func TestNeighborsSnapshot(t *testing.T) {
	g := New()
	if err := g.AddEdge(loc("a", 0, 0), loc("b", 1, 0), 1, 1); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	snap := g.Neighbors("a")
	snap[0].Blocked = true
	if g.Neighbors("a")[0].Blocked {
		t.Fatal("mutating the snapshot must not touch the graph")
	}
}

func TestSnapshotIsolatedFromMutations(t *testing.T) {
	g := New()
	if err := g.AddEdge(loc("a", 0, 0), loc("b", 1, 0), 1, 1); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	snap := g.Snapshot()

	if err := g.SetBlocked("a", "b", true); err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := g.SetCongestion("b", "a", 5); err != nil {
		t.Fatalf("congestion: %v", err)
	}
	g.AddLocation(loc("c", 2, 0))

	if snap.Neighbors("a")[0].Blocked {
		t.Error("closure applied after the snapshot must not show through it")
	}
	if got := snap.Neighbors("b")[0].EffectiveWeight(); got != 1 {
		t.Errorf("b->a effective weight = %v, want pre-mutation 1", got)
	}
	if snap.Contains("c") {
		t.Error("location added after the snapshot must not show through it")
	}
	if got := snap.LocationCount(); got != 2 {
		t.Errorf("snapshot locations = %d, want 2", got)
	}
}

func TestSetLocationKind(t *testing.T) {
	g := New()
	g.AddLocation(loc("a", 0, 0))
	if !g.SetLocationKind("a", model.LocationIncidentSite) {
		t.Fatal("known location should be reclassifiable")
	}
	got, _ := g.Location("a")
	if got.Kind != model.LocationIncidentSite {
		t.Errorf("kind = %v, want incident_site", got.Kind)
	}
	if g.SetLocationKind("missing", model.LocationCity) {
		t.Error("unknown location should report false")
	}
}
