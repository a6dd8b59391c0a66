// Package config holds engine defaults and the funtype.yaml loader.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level funtype.yaml configuration.
type Config struct {
	// MaxPasses bounds how many times each rule may be re-evaluated in
	// one analysis run. Defaults to DefaultMaxPasses.
	MaxPasses int `yaml:"max_passes,omitempty"`

	// Trace enables debug logging of submissions and re-queues.
	Trace bool `yaml:"trace,omitempty"`

	// SnapshotPath is the SQLite snapshot database. Empty disables
	// cross-session change detection.
	SnapshotPath string `yaml:"snapshot,omitempty"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	return &Config{MaxPasses: DefaultMaxPasses}
}

// Load reads a config file. An empty path means DefaultConfigFile; if
// that default file does not exist, Load returns Default() without
// error. An explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values and fills in defaults.
func (c *Config) Validate() error {
	if c.MaxPasses < 0 {
		return fmt.Errorf("max_passes must not be negative, got %d", c.MaxPasses)
	}
	if c.MaxPasses == 0 {
		c.MaxPasses = DefaultMaxPasses
	}
	return nil
}
