package agents

import (
	"context"
	"fmt"

	"github.com/jlord31/autonomous-agents/policy"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Session store providers.
const (
	ProviderMemory = "memory"
	ProviderFs     = "fs"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from JSON or YAML. The zero-value is useful; all nested
// fields inherit their package defaults.
type Config struct {
	Session SessionConfig  `json:"session" yaml:"session"`
	Engine  EngineConfig   `json:"engine" yaml:"engine"`
	Events  EventConfig    `json:"events" yaml:"events"`
	Policy  *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
	Tracing TracingConfig  `json:"tracing" yaml:"tracing"`
}

// SessionConfig selects and parameterises the session store.
type SessionConfig struct {
	// Provider is either "memory" or "fs".
	Provider string `json:"provider" yaml:"provider"`
	// BaseURL roots the fs provider (file or any afs-supported scheme).
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// EngineConfig parameterises plan execution.
type EngineConfig struct {
	// AgentTimeoutMs bounds each specialist invocation; zero means no bound.
	AgentTimeoutMs int `json:"agentTimeoutMs,omitempty" yaml:"agentTimeoutMs,omitempty"`
}

// EventConfig parameterises the event queue.
type EventConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Buffer  int  `json:"buffer,omitempty" yaml:"buffer,omitempty"`
}

// TracingConfig parameterises OpenTelemetry initialisation.
type TracingConfig struct {
	Enabled     bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	OutputFile  string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults. Callers
// may modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{Provider: ProviderMemory},
		Events:  EventConfig{Buffer: 100},
		Tracing: TracingConfig{ServiceName: "autonomous-agents", Version: "dev"},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Session.Provider {
	case "", ProviderMemory:
	case ProviderFs:
		if c.Session.BaseURL == "" {
			return fmt.Errorf("session.baseURL is required for the fs provider")
		}
	default:
		return fmt.Errorf("unknown session provider %q", c.Session.Provider)
	}
	if c.Engine.AgentTimeoutMs < 0 {
		return fmt.Errorf("engine.agentTimeoutMs must be >= 0")
	}
	return nil
}

// LoadConfig reads a YAML configuration document from any afs-supported URL.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", URL, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
