// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SkillMetaFileName is the metadata file expected at a skill directory root.
const SkillMetaFileName = "SKILL.md"

// maxFrontmatterSize limits frontmatter to prevent YAML parsing attacks.
const maxFrontmatterSize = 64 * 1024

// SkillMeta is the YAML frontmatter of a SKILL.md file.
type SkillMeta struct {
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	Version      string            `yaml:"version,omitempty"`
	AllowedTools stringOrSlice     `yaml:"allowed-tools,omitempty"`
	License      string            `yaml:"license,omitempty"`
	Metadata     map[string]string `yaml:"metadata,omitempty"`
}

// stringOrSlice is a YAML type that unmarshals from a string or a sequence.
type stringOrSlice []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *stringOrSlice) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		str := value.Value
		if str == "" {
			*s = nil
			return nil
		}
		var parts []string
		if strings.Contains(str, ",") {
			parts = strings.Split(str, ",")
		} else {
			parts = strings.Fields(str)
		}
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		*s = result
		return nil
	case yaml.SequenceNode:
		var arr []string
		if err := value.Decode(&arr); err != nil {
			return fmt.Errorf("decoding allowed-tools array: %w", err)
		}
		*s = arr
		return nil
	case yaml.DocumentNode, yaml.MappingNode, yaml.AliasNode:
		return fmt.Errorf("allowed-tools: expected string or array, got unsupported YAML node type")
	}
	return fmt.Errorf("allowed-tools: unexpected YAML node kind %d", value.Kind)
}

// ParseSkillMeta extracts and parses the YAML frontmatter from SKILL.md
// content.
func ParseSkillMeta(content []byte) (*SkillMeta, error) {
	content = bytes.TrimSpace(content)

	delimiter := []byte("---")
	if !bytes.HasPrefix(content, delimiter) {
		return nil, fmt.Errorf("SKILL.md must start with YAML frontmatter (---)")
	}

	rest := content[len(delimiter):]
	rest = bytes.TrimPrefix(rest, []byte("\n"))

	endIdx := bytes.Index(rest, delimiter)
	if endIdx == -1 {
		return nil, fmt.Errorf("SKILL.md frontmatter missing closing delimiter (---)")
	}

	fmBytes := rest[:endIdx]
	if len(fmBytes) > maxFrontmatterSize {
		return nil, fmt.Errorf("frontmatter exceeds maximum size of %d bytes", maxFrontmatterSize)
	}

	var meta SkillMeta
	if err := yaml.Unmarshal(fmBytes, &meta); err != nil {
		return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}

	return &meta, nil
}
