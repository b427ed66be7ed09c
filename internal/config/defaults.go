package config

// Default configuration values.
const (
	DefaultToolchain = "flutter"
	FileName         = ".partest.json"
	EnvParallel      = "PARTEST_PARALLEL"
	EnvTimeout       = "PARTEST_TIMEOUT"
)

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Toolchain == "" {
		cfg.Toolchain = DefaultToolchain
	}
}
