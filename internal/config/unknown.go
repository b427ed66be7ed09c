package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// LoadWithWarnings parses config data and returns any unknown field warnings.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, detectUnknownFields(data), nil
}

// detectUnknownFields compares raw JSON with known struct fields.
// Warnings are sorted so repeated runs print them in the same order.
func detectUnknownFields(data []byte) []string {
	var warnings []string

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	knownTopLevel := getJSONFields(reflect.TypeOf(Config{}))
	for key := range raw {
		if key == "$schema" {
			continue
		}
		if !knownTopLevel[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
		}
	}

	if toolchainsRaw, ok := raw["toolchains"]; ok {
		warnings = append(warnings, checkToolchainsUnknownFields(toolchainsRaw)...)
	}

	sort.Strings(warnings)
	return warnings
}

func checkToolchainsUnknownFields(data json.RawMessage) []string {
	var warnings []string

	var toolchains map[string]json.RawMessage
	if err := json.Unmarshal(data, &toolchains); err != nil {
		return []string{"internal: failed to re-parse toolchains for unknown field detection"}
	}

	known := getJSONFields(reflect.TypeOf(ToolchainConfig{}))
	for name, tcRaw := range toolchains {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(tcRaw, &fields); err != nil {
			continue
		}
		for key := range fields {
			if !known[key] {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in toolchain %q (ignored)", key, name))
			}
		}
	}

	return warnings
}

// getJSONFields returns a map of known JSON field names for a struct type.
func getJSONFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			fields[name] = true
		}
	}
	return fields
}
