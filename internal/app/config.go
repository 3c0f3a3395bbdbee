package app

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything an App instance needs to run.
type Config struct {
	// ScriptPath is the configuration script to load.
	ScriptPath string `yaml:"script"`

	// ResourceRoots are directories searched for builder manifests, after
	// the compiled-in defaults. Later roots win on merge.
	ResourceRoots []string `yaml:"resource_roots"`

	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`
}

// NewConfig validates a config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScriptPath == "" {
		return nil, errors.New("a script path is required")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}

// LoadConfigFile reads a YAML config file into a Config. Flag values merge
// on top in the CLI layer.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}
