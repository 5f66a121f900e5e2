// Package config loads and saves the chronotest.yaml harness
// configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/chronodb/chronotest/internal/harness"
)

const configPath = "chronotest.yaml"

// Timings are the harness pauses and timeouts, as duration strings.
type Timings struct {
	StartupSettle   string `yaml:"startup_settle"`
	TopologySettle  string `yaml:"topology_settle"`
	PollInterval    string `yaml:"poll_interval"`
	StartTimeout    string `yaml:"start_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	QueryTimeout    string `yaml:"query_timeout"`
}

// Config is the on-disk harness configuration.
type Config struct {
	Command    string  `yaml:"command"`
	WorkingDir string  `yaml:"working_dir"`
	Timings    Timings `yaml:"timings"`
}

// Default returns a config pre-filled with the harness defaults.
func Default() *Config {
	d := harness.DefaultConfig()
	return &Config{
		Command:    d.Command,
		WorkingDir: d.WorkingDir,
		Timings: Timings{
			StartupSettle:   d.StartupSettle.String(),
			TopologySettle:  d.TopologySettle.String(),
			PollInterval:    d.PollInterval.String(),
			StartTimeout:    d.StartTimeout.String(),
			ShutdownTimeout: d.ShutdownTimeout.String(),
			QueryTimeout:    d.QueryTimeout.String(),
		},
	}
}

// Load reads chronotest.yaml from the current directory.
func Load() (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("not in a chronotest directory\nRun this command from a directory created with 'chronotest init'")
	}

	bytes, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Command == "" {
		return nil, fmt.Errorf("command cannot be empty")
	}

	return &cfg, nil
}

// Save writes the config to chronotest.yaml in the current directory.
func Save(cfg *Config) error {
	return SaveTo(cfg, configPath)
}

// SaveTo writes the config to the given path.
func SaveTo(cfg *Config, path string) error {
	bytes, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Harness converts the on-disk config into a harness configuration,
// leaving unset timings at their defaults.
func (c *Config) Harness() (*harness.Config, error) {
	out := harness.DefaultConfig()

	if c.Command != "" {
		out.Command = c.Command
	}
	if c.WorkingDir != "" {
		out.WorkingDir = c.WorkingDir
	}

	durations := []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{c.Timings.StartupSettle, "startup_settle", &out.StartupSettle},
		{c.Timings.TopologySettle, "topology_settle", &out.TopologySettle},
		{c.Timings.PollInterval, "poll_interval", &out.PollInterval},
		{c.Timings.StartTimeout, "start_timeout", &out.StartTimeout},
		{c.Timings.ShutdownTimeout, "shutdown_timeout", &out.ShutdownTimeout},
		{c.Timings.QueryTimeout, "query_timeout", &out.QueryTimeout},
	}

	for _, d := range durations {
		if d.raw == "" {
			continue
		}

		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.name, d.raw, err)
		}
		*d.dst = parsed
	}

	return out, nil
}
