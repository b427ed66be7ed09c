// Package toolchain provides the profiles that tell discovery which marker file
// identifies a package and tell workers which command runs its tests.
package toolchain

import (
	"os"
	"path/filepath"
)

// RootEnv locates an executable under a directory named by an environment variable.
type RootEnv struct {
	Var  string // Environment variable holding a directory, e.g. FLUTTER_ROOT
	Path string // Executable path relative to that directory, slash-separated
}

// Toolchain describes one ecosystem's package layout and test command.
type Toolchain struct {
	Name       string
	Title      string
	Extends    string
	Marker     string    // Manifest file directly inside a package root
	TestDir    string    // Conventional test subdirectory; its presence means the package has tests
	Executable string    // Fallback executable, looked up on PATH at launch
	RootEnv    []RootEnv // Environment-derived executable locations, tried in order
	Args       []string  // Fixed arguments placed before any pass-through arguments
	Parser     string    // Output parser name; inherited through extends, empty for none
}

// ResolveExecutable returns the executable to launch.
// The first RootEnv whose variable is set wins and is made absolute against the
// working directory, since each command runs in its own package directory.
// Otherwise Executable is returned unchanged so the launch fails with a clear
// error if it is not on PATH.
func (t *Toolchain) ResolveExecutable(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, re := range t.RootEnv {
		if dir := getenv(re.Var); dir != "" {
			path := filepath.Join(dir, filepath.FromSlash(re.Path))
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return t.Executable
}

// CommandArgs returns the full argument list: the toolchain's fixed arguments,
// then extra (configured) arguments, then pass-through arguments.
func (t *Toolchain) CommandArgs(extra, passthrough []string) []string {
	args := make([]string, 0, len(t.Args)+len(extra)+len(passthrough))
	args = append(args, t.Args...)
	args = append(args, extra...)
	args = append(args, passthrough...)
	return args
}

// Get retrieves a built-in toolchain by name.
func Get(name string) (*Toolchain, bool) {
	tc, ok := builtinToolchains[name]
	if !ok {
		return nil, false
	}
	return tc.clone(), true
}

// IsBuiltin checks if a toolchain name is a built-in toolchain.
func IsBuiltin(name string) bool {
	_, ok := builtinToolchains[name]
	return ok
}

func (t *Toolchain) clone() *Toolchain {
	c := *t
	c.RootEnv = append([]RootEnv(nil), t.RootEnv...)
	c.Args = append([]string(nil), t.Args...)
	return &c
}
