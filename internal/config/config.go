// Package config loads cfgraph settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cfgraph/core/internal/analysis"
	"github.com/cfgraph/core/internal/handlers"
)

// Config holds all cfgraph configuration.
type Config struct {
	// Artifacts produced by the discovery engine
	Data DataConfig `yaml:"data"`

	// Fixed corrections for formulas tracked outside the graph
	Corrections analysis.Corrections `yaml:"corrections"`

	Verifier analysis.VerifierConfig `yaml:"verifier"`

	Server ServerConfig `yaml:"server"`

	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig locates the input artifacts. Only Graph is required.
type DataConfig struct {
	Graph    string `yaml:"graph"`
	Formulas string `yaml:"formulas"`
	Masters  string `yaml:"masters"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	AllowedOrigin string `yaml:"allowed_origin"`
	MaxBodyBytes  int64  `yaml:"max_body_bytes"` // limit for POST /analyze
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

var (
	ValidLevels  = []string{"debug", "info", "warn", "error"}
	ValidFormats = []string{"json", "console"}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Graph: "data/graph.json",
		},
		Verifier: analysis.DefaultVerifierConfig(),
		Server: ServerConfig{
			Addr:          ":8080",
			AllowedOrigin: "*",
			MaxBodyBytes:  handlers.DefaultMaxBodyBytes,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("CFGRAPH_GRAPH"); path != "" {
		c.Data.Graph = path
	}
	if path := os.Getenv("CFGRAPH_FORMULAS"); path != "" {
		c.Data.Formulas = path
	}
	if path := os.Getenv("CFGRAPH_MASTERS"); path != "" {
		c.Data.Masters = path
	}
	if addr := os.Getenv("CFGRAPH_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if origin := os.Getenv("CORS_ALLOWED_ORIGIN"); origin != "" {
		c.Server.AllowedOrigin = origin
	}
	if level := os.Getenv("CFGRAPH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Data.Graph == "" {
		return fmt.Errorf("graph path not configured (set data.graph or CFGRAPH_GRAPH)")
	}

	if err := c.Corrections.Validate(); err != nil {
		return err
	}

	if c.Verifier.Concurrency < 0 {
		return fmt.Errorf("verifier concurrency must be non-negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server max_body_bytes must be non-negative")
	}

	if !slices.Contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if !slices.Contains(ValidFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidFormats)
	}

	return nil
}
