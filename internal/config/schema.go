// Package config provides loading and validation of the optional .partest.json file.
package config

// Config represents the complete .partest.json configuration.
// Every field is optional; zero values mean "use the default".
type Config struct {
	Toolchain  string                     `json:"toolchain,omitempty"`
	Parallel   int                        `json:"parallel,omitempty"`
	Timeout    string                     `json:"timeout,omitempty"` // Go duration, e.g. "10m"
	Exclude    []string                   `json:"exclude,omitempty"` // Directory name globs pruned from discovery
	Args       []string                   `json:"args,omitempty"`    // Extra arguments passed before command-line pass-through args
	Toolchains map[string]ToolchainConfig `json:"toolchains,omitempty"`
}

// ToolchainConfig defines a custom toolchain profile or overrides a built-in one.
type ToolchainConfig struct {
	Extends    string          `json:"extends,omitempty"`
	Title      string          `json:"title,omitempty"`
	Marker     string          `json:"marker,omitempty"`
	TestDir    string          `json:"test_dir,omitempty"`
	Executable string          `json:"executable,omitempty"`
	RootEnv    []RootEnvConfig `json:"root_env,omitempty"`
	Args       []string        `json:"args,omitempty"`
}

// RootEnvConfig locates the executable relative to a directory named by an
// environment variable, e.g. {"var": "FLUTTER_ROOT", "path": "bin/flutter"}.
type RootEnvConfig struct {
	Var  string `json:"var"`
	Path string `json:"path"`
}
