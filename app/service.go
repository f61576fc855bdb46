// Package app wires configuration, infrastructure and the dispatch core into
// a runnable service.
package app

import (
	"context"
	"fmt"

	"github.com/kilianp07/perds/config"
	"github.com/kilianp07/perds/core/demand"
	"github.com/kilianp07/perds/core/dispatch"
	corelogger "github.com/kilianp07/perds/core/logger"
	"github.com/kilianp07/perds/core/network"
	"github.com/kilianp07/perds/core/pathfind"
	"github.com/kilianp07/perds/core/prediction"
	"github.com/kilianp07/perds/infra/logger"
	"github.com/kilianp07/perds/infra/metrics"
	"github.com/kilianp07/perds/internal/eventbus"
)

// Service orchestrates the dispatch engine, demand model and repositioner.
type Service struct {
	Graph        *network.Graph
	Engine       *dispatch.Engine
	Demand       *demand.Model
	Repositioner *demand.Repositioner
	Regressor    *prediction.RidgeRegressor

	bus      eventbus.EventBus
	sink     interface{ Close() }
	log      corelogger.Logger
	promAddr string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	graph, err := cfg.Network.Build()
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}
	units, err := config.BuildFleet(cfg.Fleet, graph.Contains)
	if err != nil {
		return nil, fmt.Errorf("build fleet: %w", err)
	}

	finder, err := newFinder(cfg.Dispatch.PathStrategy)
	if err != nil {
		return nil, err
	}
	sink, err := metrics.New(cfg.Metrics, logg)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New()
	engine, err := dispatch.NewEngine(graph, finder, logg, sink, bus)
	if err != nil {
		return nil, fmt.Errorf("dispatch engine: %w", err)
	}
	if cfg.Dispatch.Strategy == "multi_criteria" {
		scorer := dispatch.NewMultiCriteriaScorer(graph, finder)
		scorer.SetWeights(cfg.Dispatch.Weights)
		engine.UseScorer(scorer)
	}
	for _, u := range units {
		engine.RegisterUnit(u)
	}

	dm := demand.NewModelWithWindow(cfg.Demand.WindowSize)
	repos := demand.NewRepositioner(graph, dm, finder, logg)

	svc := &Service{
		Graph:        graph,
		Engine:       engine,
		Demand:       dm,
		Repositioner: repos,
		Regressor:    prediction.NewRidgeRegressor(cfg.Demand.RidgeLambda),
		bus:          bus,
		log:          logg,
	}
	if c, ok := sink.(interface{ Close() }); ok {
		svc.sink = c
	}
	if cfg.Metrics.Sink == "prom" || cfg.Metrics.Sink == "multi" {
		svc.promAddr = fmt.Sprintf(":%d", cfg.Metrics.PrometheusPort)
	}
	return svc, nil
}

func newFinder(strategy string) (pathfind.Finder, error) {
	switch strategy {
	case "", "dijkstra":
		return pathfind.Dijkstra{}, nil
	case "astar":
		return pathfind.AStar{}, nil
	default:
		return nil, fmt.Errorf("unknown path strategy %q", strategy)
	}
}

// Run serves the metrics endpoint, if enabled, and blocks until the context
// is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	s.log.Infof("service ready: %d locations, %d units", s.Graph.LocationCount(), len(s.Engine.Units()))
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.sink != nil {
		s.sink.Close()
	}
	s.bus.Close()
	return nil
}
