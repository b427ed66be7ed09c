// Package topsort orders named nodes so that every node follows the nodes it
// depends on. The toolchain resolver uses it to build custom profiles after
// the profiles they extend.
package topsort

import (
	"fmt"
	"sort"
	"strings"
)

// Graph maps a node name to the names it depends on.
// Dependencies that are not keys of the graph are external (for example a
// built-in toolchain) and impose no ordering.
type Graph map[string][]string

// CycleError reports a dependency cycle. Path starts and ends with the same node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Path, " -> "))
}

// Sort returns every node of g with dependencies before dependents.
// Ties are broken by name, so the result is deterministic.
func Sort(g Graph) ([]string, error) {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]string, 0, len(g))
	visited := make(map[string]bool)
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		for i, n := range stack {
			if n == name {
				path := append(append([]string(nil), stack[i:]...), name)
				return &CycleError{Path: path}
			}
		}
		if visited[name] {
			return nil
		}
		deps, internal := g[name]
		if !internal {
			return nil
		}

		stack = append(stack, name)
		sorted := append([]string(nil), deps...)
		sort.Strings(sorted)
		for _, dep := range sorted {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]

		visited[name] = true
		result = append(result, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return result, nil
}
