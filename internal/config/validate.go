package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
)

// Toolchain name: lowercase letters, digits, and hyphens.
var toolchainNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// MaxParallel is the largest accepted worker count.
const MaxParallel = 256

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors the schema cannot express.
func Validate(cfg *Config) error {
	if cfg.Parallel < 0 || cfg.Parallel > MaxParallel {
		return &ValidationError{
			Field:   "parallel",
			Message: fmt.Sprintf("must be between 1 and %d", MaxParallel),
		}
	}

	if _, err := cfg.TimeoutDuration(); err != nil {
		return &ValidationError{Field: "timeout", Message: err.Error()}
	}

	for _, pattern := range cfg.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return &ValidationError{
				Field:   "exclude",
				Message: fmt.Sprintf("invalid pattern %q: %v", pattern, err),
			}
		}
	}

	return validateToolchains(cfg)
}

func validateToolchains(cfg *Config) error {
	names := make([]string, 0, len(cfg.Toolchains))
	for name := range cfg.Toolchains {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !toolchainNamePattern.MatchString(name) {
			return &ValidationError{
				Field:   fmt.Sprintf("toolchains.%s", name),
				Message: "toolchain name must match pattern ^[a-z][a-z0-9-]*$",
			}
		}
		tc := cfg.Toolchains[name]
		for i, re := range tc.RootEnv {
			if re.Var == "" || re.Path == "" {
				return &ValidationError{
					Field:   fmt.Sprintf("toolchains.%s.root_env[%d]", name, i),
					Message: `"var" and "path" are required`,
				}
			}
		}
	}
	return nil
}
