package metrics

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/kilianp07/perds/core/logger"
	coremetrics "github.com/kilianp07/perds/core/metrics"
)

// InfluxSink writes dispatch decisions to an InfluxDB bucket.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink connects to InfluxDB and verifies the server is reachable.
func NewInfluxSink(cfg coremetrics.InfluxConfig, log logger.Logger) (*InfluxSink, error) {
	if log == nil {
		log = logger.Nop{}
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := client.Health(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("influx health check: %w", err)
	}
	if health.Status != "pass" {
		client.Close()
		return nil, fmt.Errorf("influx unhealthy: %s", health.Status)
	}

	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      log,
	}, nil
}

// NewInfluxSinkWithFallback returns a NopSink when the server cannot be
// reached, so a missing InfluxDB never blocks dispatching.
func NewInfluxSinkWithFallback(cfg coremetrics.InfluxConfig, log logger.Logger) coremetrics.MetricsSink {
	sink, err := NewInfluxSink(cfg, log)
	if err != nil {
		if log != nil {
			log.Warnf("influx sink unavailable, falling back to nop: %v", err)
		}
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordDecisions implements core/metrics.MetricsSink.
func (s *InfluxSink) RecordDecisions(events []coremetrics.DecisionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, ev := range events {
		point := influxdb2.NewPoint(
			"dispatch_decision",
			map[string]string{
				"unit_type": ev.UnitType.String(),
				"severity":  ev.Severity.String(),
				"type":      ev.IncidentType.String(),
			},
			map[string]any{
				"incident_id":     ev.IncidentID,
				"unit_id":         ev.UnitID,
				"distance":        ev.Distance,
				"queue_wait_secs": ev.QueueWait.Seconds(),
			},
			ev.Time,
		)
		if err := s.writeAPI.WritePoint(ctx, point); err != nil {
			return fmt.Errorf("write decision point: %w", err)
		}
	}
	return nil
}

// RecordReposition implements core/metrics.RepositionRecorder.
func (s *InfluxSink) RecordReposition(ev coremetrics.RepositionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	point := influxdb2.NewPoint(
		"reposition",
		map[string]string{"unit_id": ev.UnitID},
		map[string]any{
			"from":     ev.FromID,
			"target":   ev.TargetID,
			"distance": ev.Distance,
		},
		ev.Time,
	)
	if err := s.writeAPI.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("write reposition point: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
