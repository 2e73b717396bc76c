// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// ResolveRange returns the highest version in available that satisfies the
// range, and whether any did. Supported ranges: exact ("1.2.3"), caret
// ("^1.0.0"), tilde ("~1.0.0"), and wildcard ("*").
//
// Versions in available that do not parse as semantic versions are skipped.
func ResolveRange(versionRange string, available []string) (string, bool) {
	if len(available) == 0 {
		return "", false
	}

	constraint, err := semver.NewConstraint(versionRange)
	if err != nil {
		return "", false
	}

	versions := make([]*semver.Version, 0, len(available))
	for _, raw := range available {
		v, err := semver.StrictNewVersion(raw)
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}

	// Highest first.
	sort.Sort(sort.Reverse(semver.Collection(versions)))

	for _, v := range versions {
		if constraint.Check(v) {
			return v.Original(), true
		}
	}
	return "", false
}

// ValidRange reports whether the string is an accepted version range.
func ValidRange(versionRange string) error {
	if _, err := semver.NewConstraint(versionRange); err != nil {
		return fmt.Errorf("invalid version range %q: %w", versionRange, err)
	}
	return nil
}
