package toolchain

import "sort"

// builtinToolchains are the profiles available without configuration.
// flutter is the default: it mirrors the layout of Flutter module repos where
// each package has a pubspec.yaml and a test/ directory.
var builtinToolchains = map[string]*Toolchain{
	"flutter": {
		Name:       "flutter",
		Title:      "Flutter",
		Marker:     "pubspec.yaml",
		TestDir:    "test",
		Executable: "flutter",
		RootEnv: []RootEnv{
			{Var: "FLUTTER_ROOT", Path: "bin/flutter"},
			{Var: "FUCHSIA_DIR", Path: "lib/flutter/bin/flutter"},
		},
		Args:   []string{"test"},
		Parser: "flutter",
	},
	"dart": {
		Name:       "dart",
		Title:      "Dart",
		Marker:     "pubspec.yaml",
		TestDir:    "test",
		Executable: "dart",
		RootEnv: []RootEnv{
			{Var: "DART_SDK", Path: "bin/dart"},
			{Var: "FLUTTER_ROOT", Path: "bin/dart"},
		},
		Args:   []string{"test"},
		Parser: "dart",
	},
	"cargo": {
		Name:       "cargo",
		Title:      "Cargo",
		Marker:     "Cargo.toml",
		TestDir:    "tests",
		Executable: "cargo",
		RootEnv: []RootEnv{
			{Var: "CARGO_HOME", Path: "bin/cargo"},
		},
		Args:   []string{"test"},
		Parser: "cargo",
	},
}

// List returns the sorted names of all built-in toolchains.
func List() []string {
	names := make([]string, 0, len(builtinToolchains))
	for name := range builtinToolchains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
