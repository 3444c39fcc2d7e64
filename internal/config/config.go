package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/se-bastiaan/captionconvert/internal/subtitle"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel     string      `yaml:"log_level"`
	OutputFormat string      `yaml:"output_format"`
	OffsetMS     int         `yaml:"offset_ms"`
	Watch        WatchConfig `yaml:"watch"`
}

type WatchConfig struct {
	Input         string `yaml:"input"`
	Output        string `yaml:"output"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// Default returns a validated configuration with every default filled in.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// Load reads a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks the values and fills in defaults.
func (c *Config) Validate() error {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}

	if c.OutputFormat == "" {
		c.OutputFormat = string(subtitle.FormatVTT)
	}
	if _, err := subtitle.Lookup(subtitle.Format(c.OutputFormat)); err != nil {
		return fmt.Errorf("output_format: %w", err)
	}
	c.OutputFormat = strings.ToLower(c.OutputFormat)

	if c.Watch.Input == "" {
		c.Watch.Input = "data/input"
	}
	if c.Watch.Output == "" {
		c.Watch.Output = "data/output"
	}
	if c.Watch.MaxConcurrent < 0 {
		return fmt.Errorf("watch.max_concurrent must not be negative")
	}
	if c.Watch.MaxConcurrent == 0 {
		c.Watch.MaxConcurrent = 2
	}

	return nil
}
