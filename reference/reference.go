// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package reference

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// PublicScope is the implicit scope for references with no namespace prefix.
const PublicScope = "public"

// nameRegex constrains both the scope and name segments of a reference.
var nameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// PackageReference identifies a skill or profile within a registry.
type PackageReference struct {
	// Scope is the organization/namespace segment, or "public" when the
	// reference carried no prefix.
	Scope string

	// Name is the bare package identifier: lowercase alphanumerics and hyphens.
	Name string

	// Version is an exact semantic version, or empty to resolve automatically.
	Version string
}

// InvalidReferenceError reports a reference string that does not match the
// accepted grammar.
type InvalidReferenceError struct {
	Spec string
}

// Error implements the error interface.
func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid package reference %q: expected [scope/]name[@version]", e.Spec)
}

// Parse parses a reference string of the form [scope/]name[@version].
//
// Parsing is all-or-nothing: any deviation from the grammar fails with
// *InvalidReferenceError, never a partial result. Parse performs no network
// or filesystem access.
func Parse(spec string) (PackageReference, error) {
	ref := PackageReference{Scope: PublicScope}

	rest := spec
	if strings.Contains(rest, "/") {
		parts := strings.Split(rest, "/")
		if len(parts) != 2 {
			return PackageReference{}, &InvalidReferenceError{Spec: spec}
		}
		ref.Scope = parts[0]
		rest = parts[1]
	}

	if strings.Contains(rest, "@") {
		parts := strings.Split(rest, "@")
		if len(parts) != 2 || parts[1] == "" {
			return PackageReference{}, &InvalidReferenceError{Spec: spec}
		}
		// The version segment must be one exact semantic version. Ranges and
		// partial versions belong in the manifest, never in a reference.
		if _, err := semver.StrictNewVersion(parts[1]); err != nil {
			return PackageReference{}, &InvalidReferenceError{Spec: spec}
		}
		rest = parts[0]
		ref.Version = parts[1]
	}

	if !nameRegex.MatchString(ref.Scope) || !nameRegex.MatchString(rest) {
		return PackageReference{}, &InvalidReferenceError{Spec: spec}
	}
	ref.Name = rest

	return ref, nil
}

// String reconstructs the canonical reference string. Parsing the result
// yields an identical PackageReference.
func (r PackageReference) String() string {
	var b strings.Builder
	if r.Scope != "" && r.Scope != PublicScope {
		b.WriteString(r.Scope)
		b.WriteString("/")
	}
	b.WriteString(r.Name)
	if r.Version != "" {
		b.WriteString("@")
		b.WriteString(r.Version)
	}
	return b.String()
}

// IsPublic reports whether the reference targets the unscoped public registry.
func (r PackageReference) IsPublic() bool {
	return r.Scope == "" || r.Scope == PublicScope
}
