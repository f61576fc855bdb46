package metrics

import (
	"fmt"

	"github.com/kilianp07/perds/core/logger"
	coremetrics "github.com/kilianp07/perds/core/metrics"
)

// New builds the sink described by the configuration. Supported values for
// cfg.Sink are "prom", "influx", "multi" (both) and "nop".
func New(cfg coremetrics.Config, log logger.Logger) (coremetrics.MetricsSink, error) {
	switch cfg.Sink {
	case "", "nop":
		return coremetrics.NopSink{}, nil
	case "prom":
		return NewPromSink()
	case "influx":
		return NewInfluxSinkWithFallback(cfg.Influx, log), nil
	case "multi":
		prom, err := NewPromSink()
		if err != nil {
			return nil, err
		}
		influx := NewInfluxSinkWithFallback(cfg.Influx, log)
		return NewMultiSink(prom, influx), nil
	default:
		return nil, fmt.Errorf("unknown metrics sink %q", cfg.Sink)
	}
}
