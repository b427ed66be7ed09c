package testparser

import "strings"

// Registry maps toolchain identifiers to their parsers.
// A Registry is read-only after construction and safe for concurrent Lookup.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates a new parser registry with all built-in parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	dartParser := &DartParser{}
	cargoParser := &CargoParser{}

	// flutter test and dart test share the package:test reporter format
	r.parsers["flutter"] = dartParser
	r.parsers["dart"] = dartParser
	r.parsers["cargo"] = cargoParser

	return r
}

// GetParser returns a parser for the given toolchain identifier.
// Returns nil if no parser is found.
func (r *Registry) GetParser(toolchain string) Parser {
	if r == nil {
		return nil
	}
	return r.parsers[strings.ToLower(toolchain)]
}

// Parse runs the toolchain's parser over output.
// It returns nil when no parser is registered or nothing was recognised.
func (r *Registry) Parse(toolchain, output string) *TestCounts {
	p := r.GetParser(toolchain)
	if p == nil {
		return nil
	}
	counts := p.Parse(output)
	if !counts.Parsed {
		return nil
	}
	return &counts
}
