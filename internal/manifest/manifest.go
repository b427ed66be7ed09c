// Package manifest reads the package name declared in a package's manifest file.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Manifest holds the fields partest reads from a package manifest.
type Manifest struct {
	Name        string
	Description string
	Version     string
}

// pubspec mirrors the top-level keys of a Dart/Flutter pubspec.yaml.
type pubspec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// cargoManifest mirrors the [package] table of a Cargo.toml.
type cargoManifest struct {
	Package struct {
		Name        string `toml:"name"`
		Description string `toml:"description"`
		Version     string `toml:"version"`
	} `toml:"package"`
}

type packageJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// Read parses the manifest at path. The format is chosen by file extension:
// .yaml/.yml, .toml and .json are understood. Other formats return an empty
// Manifest without error, since custom toolchains may use arbitrary markers.
func Read(path string) (*Manifest, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".toml", ".json":
	default:
		return &Manifest{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	switch ext {
	case ".yaml", ".yml":
		var m pubspec
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
		return &Manifest{Name: m.Name, Description: m.Description, Version: m.Version}, nil
	case ".toml":
		var m cargoManifest
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
		return &Manifest{Name: m.Package.Name, Description: m.Package.Description, Version: m.Package.Version}, nil
	default:
		var m packageJSON
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
		return &Manifest{Name: m.Name, Description: m.Description, Version: m.Version}, nil
	}
}

// Name returns the package name declared in the manifest at path,
// or "" if the manifest cannot be read or declares no name.
func Name(path string) string {
	m, err := Read(path)
	if err != nil {
		return ""
	}
	return m.Name
}
