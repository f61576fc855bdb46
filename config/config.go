package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/perds/core/dispatch"
	"github.com/kilianp07/perds/core/metrics"
	"github.com/kilianp07/perds/core/simulation"
)

type Config struct {
	Logging    LoggingConfig     `json:"logging"`
	Metrics    metrics.Config    `json:"metrics"`
	Dispatch   dispatch.Config   `json:"dispatch"`
	Demand     DemandConfig      `json:"demand"`
	Simulation simulation.Config `json:"simulation"`
	Network    NetworkConfig     `json:"network"`
	Fleet      []UnitSeed        `json:"fleet"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PERDS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "perds_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Logging.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Dispatch.SetDefaults()
	cfg.Demand.SetDefaults()
	cfg.Simulation.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Dispatch.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Network.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
