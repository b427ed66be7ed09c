package toolchain

import (
	"fmt"
	"sort"

	"github.com/AndreyAkinshin/partest/internal/config"
	"github.com/AndreyAkinshin/partest/internal/topsort"
)

// Resolver handles toolchain resolution including custom toolchains and extension.
type Resolver struct {
	custom map[string]*Toolchain
}

// NewResolver creates a resolver with custom toolchains from configuration.
// A custom toolchain named like a built-in one overrides the built-in fields it sets.
func NewResolver(cfg *config.Config) (*Resolver, error) {
	r := &Resolver{
		custom: make(map[string]*Toolchain),
	}

	// Build each profile after the custom profile it extends.
	graph := make(topsort.Graph, len(cfg.Toolchains))
	for name, tcCfg := range cfg.Toolchains {
		var deps []string
		if tcCfg.Extends != "" && tcCfg.Extends != name {
			deps = append(deps, tcCfg.Extends)
		}
		graph[name] = deps
	}
	order, err := topsort.Sort(graph)
	if err != nil {
		return nil, fmt.Errorf("toolchains: %w", err)
	}

	for _, name := range order {
		tc, err := r.buildCustomToolchain(name, cfg.Toolchains[name])
		if err != nil {
			return nil, fmt.Errorf("toolchain %q: %w", name, err)
		}
		r.custom[name] = tc
	}

	return r, nil
}

// Resolve gets a toolchain by name, checking custom toolchains first.
func (r *Resolver) Resolve(name string) (*Toolchain, error) {
	if tc, ok := r.custom[name]; ok {
		return tc.clone(), nil
	}
	if tc, ok := Get(name); ok {
		return tc, nil
	}
	return nil, fmt.Errorf("unknown toolchain: %q", name)
}

// Names returns all resolvable toolchain names, sorted.
func (r *Resolver) Names() []string {
	seen := make(map[string]bool)
	for _, name := range List() {
		seen[name] = true
	}
	for name := range r.custom {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildCustomToolchain creates a Toolchain from configuration.
func (r *Resolver) buildCustomToolchain(name string, cfg config.ToolchainConfig) (*Toolchain, error) {
	tc := &Toolchain{Name: name, Extends: cfg.Extends}

	baseName := cfg.Extends
	if baseName == "" && IsBuiltin(name) {
		baseName = name
	}
	if baseName != "" {
		base, err := r.resolveBase(baseName)
		if err != nil {
			return nil, fmt.Errorf("extends %q: %w", baseName, err)
		}
		tc = base.clone()
		tc.Name = name
		tc.Extends = cfg.Extends
	}

	if cfg.Title != "" {
		tc.Title = cfg.Title
	}
	if cfg.Marker != "" {
		tc.Marker = cfg.Marker
	}
	if cfg.TestDir != "" {
		tc.TestDir = cfg.TestDir
	}
	if cfg.Executable != "" {
		tc.Executable = cfg.Executable
		// An explicit executable replaces inherited environment lookups
		// unless new ones are configured alongside it.
		tc.RootEnv = nil
	}
	if len(cfg.RootEnv) > 0 {
		tc.RootEnv = make([]RootEnv, 0, len(cfg.RootEnv))
		for _, re := range cfg.RootEnv {
			tc.RootEnv = append(tc.RootEnv, RootEnv{Var: re.Var, Path: re.Path})
		}
	}
	if cfg.Args != nil {
		tc.Args = append([]string(nil), cfg.Args...)
	}

	if tc.Marker == "" {
		return nil, fmt.Errorf(`"marker" is required`)
	}
	if tc.Executable == "" && len(tc.RootEnv) == 0 {
		return nil, fmt.Errorf(`"executable" or "root_env" is required`)
	}
	if tc.TestDir == "" {
		tc.TestDir = "test"
	}

	return tc, nil
}

// resolveBase resolves a base toolchain for extension.
// Custom profiles are built in dependency order, so a custom base is already present.
func (r *Resolver) resolveBase(name string) (*Toolchain, error) {
	if tc, ok := r.custom[name]; ok {
		return tc, nil
	}
	if tc, ok := builtinToolchains[name]; ok {
		return tc, nil
	}
	return nil, fmt.Errorf("base toolchain %q not found", name)
}
