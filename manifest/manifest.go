// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tilework-tech/nori-core/validation"
)

// FileName is the dependency manifest file within a profile directory.
const FileName = "skills.json"

// Dependency declares one external skill a profile depends on.
type Dependency struct {
	Name         string
	VersionRange string
}

// rangeEntry accepts both manifest value forms: a bare range string or an
// object {"version": "<range>"}.
type rangeEntry struct {
	Range string
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *rangeEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Range = s
		return nil
	}

	var obj struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("manifest entry must be a range string or {\"version\": ...}: %w", err)
	}
	e.Range = obj.Version
	return nil
}

// Read loads the dependency manifest from a profile directory.
//
// A missing manifest returns (nil, nil): having no declared dependencies is
// not an error. Malformed JSON or a schema violation is fatal. Entries are
// returned sorted by name.
func Read(profileDir string) ([]Dependency, error) {
	path := filepath.Join(profileDir, FileName)

	data, err := os.ReadFile(path) //#nosec G304 -- path constructed from caller-provided profile directory
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := validateAgainstSchema(data, "data/skills-manifest.schema.json", "manifest schema validation failed"); err != nil {
		return nil, err
	}

	var raw map[string]rangeEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	deps := make([]Dependency, 0, len(raw))
	for name, entry := range raw {
		deps = append(deps, Dependency{Name: name, VersionRange: entry.Range})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })

	return deps, nil
}

// Write fully overwrites the manifest in a profile directory. Entries are
// serialized in the bare-string form, keys sorted, 2-space indentation.
func Write(profileDir string, deps []Dependency) error {
	byName := make(map[string]string, len(deps))
	for _, d := range deps {
		byName[d.Name] = d.VersionRange
	}

	data, err := json.MarshalIndent(byName, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(profileDir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil { //#nosec G306 -- manifest is not sensitive
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// AddOrUpdate sets one dependency's range, preserving every other entry.
// A missing manifest is treated as empty.
func AddOrUpdate(profileDir, name, versionRange string) error {
	if err := validation.ValidateName(name); err != nil {
		return fmt.Errorf("invalid dependency name: %w", err)
	}

	deps, err := Read(profileDir)
	if err != nil {
		return err
	}

	updated := false
	for i := range deps {
		if deps[i].Name == name {
			deps[i].VersionRange = versionRange
			updated = true
			break
		}
	}
	if !updated {
		deps = append(deps, Dependency{Name: name, VersionRange: versionRange})
	}

	return Write(profileDir, deps)
}
