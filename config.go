package taskpool

import (
	"fmt"

	"github.com/viant/taskpool/policy"
	"github.com/viant/taskpool/scheduler"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from JSON or YAML, or loaded from any afs URL via
// WithConfigURL. The zero-value is useful, all nested fields inherit their
// package defaults.
type Config struct {
	// Name identifies the pool in counters, metrics labels and logs.
	Name      string          `json:"name,omitempty" yaml:"name,omitempty"`
	Pool      PoolConfig      `json:"pool,omitempty" yaml:"pool,omitempty"`
	Metrics   MetricsConfig   `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
	Policy    *policy.Config  `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// PoolConfig sizes the worker pool. Size zero inherits the package default.
type PoolConfig struct {
	Size          int  `json:"size,omitempty" yaml:"size,omitempty"`
	DrainOnShrink bool `json:"drainOnShrink,omitempty" yaml:"drainOnShrink,omitempty"`
}

// MetricsConfig enables the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// TelemetryConfig enables OpenTelemetry tracing. An empty OutputFile sends
// spans to stdout.
type TelemetryConfig struct {
	Enabled        bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	ServiceName    string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	ServiceVersion string `json:"serviceVersion,omitempty" yaml:"serviceVersion,omitempty"`
	OutputFile     string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config carrying the package defaults.
func DefaultConfig() *Config {
	pool := scheduler.DefaultConfig()
	return &Config{
		Name: "taskpool",
		Pool: PoolConfig{Size: pool.PoolSize},
	}
}

// Validate returns an error describing invalid settings, nil otherwise.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Pool.Size < 0 {
		return fmt.Errorf("pool.size cannot be negative: %d", c.Pool.Size)
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return fmt.Errorf("metrics.address is required when metrics are enabled")
	}
	return nil
}

func (c *Config) schedulerConfig() scheduler.Config {
	cfg := scheduler.DefaultConfig()
	if c.Pool.Size > 0 {
		cfg.PoolSize = c.Pool.Size
	}
	cfg.DrainOnShrink = c.Pool.DrainOnShrink
	return cfg
}
