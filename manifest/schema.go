// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/skills-manifest.schema.json data/version-marker.schema.json
var embeddedSchemaFS embed.FS

// validateAgainstSchema validates JSON bytes against an embedded schema file.
func validateAgainstSchema(data []byte, schemaFile string, errPrefix string) error {
	schemaBytes, err := embeddedSchemaFS.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read embedded schema %s: %w", schemaFile, err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%s: %w", errPrefix, err)
	}

	if !result.Valid() {
		var sb strings.Builder
		for i, desc := range result.Errors() {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(desc.String())
		}
		return errors.New(errPrefix + ": " + sb.String())
	}

	return nil
}
