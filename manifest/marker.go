// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MarkerFileName is the installed-version marker within an installed skill
// directory.
const MarkerFileName = ".nori-version"

// Marker records which version of a skill is installed locally and where it
// came from.
type Marker struct {
	Version     string `json:"version"`
	RegistryURL string `json:"registryUrl"`
	OrgID       string `json:"orgId,omitempty"`
}

// ReadMarker loads the installed-version marker from a skill directory.
// A missing marker returns (nil, nil): the skill was never installed from a
// registry. A malformed marker is fatal.
func ReadMarker(skillDir string) (*Marker, error) {
	path := filepath.Join(skillDir, MarkerFileName)

	data, err := os.ReadFile(path) //#nosec G304 -- path constructed from caller-provided skill directory
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := validateAgainstSchema(data, "data/version-marker.schema.json", "version marker schema validation failed"); err != nil {
		return nil, err
	}

	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}

// WriteMarker writes the installed-version marker into a skill directory,
// 2-space indented.
func WriteMarker(skillDir string, m Marker) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding version marker: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(skillDir, MarkerFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil { //#nosec G306 -- marker is not sensitive
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
