package metrics

// Config selects and parameterises the metric sinks.
type Config struct {
	// Sink is one of "prom", "influx", "multi" or "nop".
	Sink           string       `json:"sink"`
	PrometheusPort int          `json:"prometheus_port"`
	Influx         InfluxConfig `json:"influx"`
}

// InfluxConfig holds connection settings for the InfluxDB sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// SetDefaults fills zero values with sensible defaults.
func (c *Config) SetDefaults() {
	if c.Sink == "" {
		c.Sink = "prom"
	}
	if c.PrometheusPort == 0 {
		c.PrometheusPort = 2112
	}
}
