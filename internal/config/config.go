package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AndreyAkinshin/partest/internal/schema"
)

// Default returns the configuration used when no .partest.json exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads, schema-checks and parses a .partest.json file.
func Load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := schema.ValidateConfig(data); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return LoadWithWarnings(path, data)
}

// LoadAndValidate reads a config file, applies defaults, validates, and returns warnings.
func LoadAndValidate(path string) (*Config, []string, error) {
	cfg, warnings, err := Load(path)
	if err != nil {
		return nil, nil, err
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, warnings, err
	}

	return cfg, warnings, nil
}

// LoadFromRoot loads <root>/.partest.json if present, or returns defaults.
func LoadFromRoot(root string) (*Config, []string, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil, nil
	}
	return LoadAndValidate(path)
}

// TimeoutDuration parses the configured per-package timeout.
// An empty value means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return ParseTimeout(c.Timeout)
}

// ParseTimeout parses a per-package timeout. "0" disables the timeout.
func ParseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", s)
	}
	return d, nil
}
