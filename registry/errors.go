// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"errors"
	"fmt"

	"github.com/tilework-tech/nori-core/collision"
)

// ErrPackageNotFound reports that a package has never been published to the
// registry. The publish path treats this as the signal for a new package;
// the fetch path surfaces it as a failure.
var ErrPackageNotFound = errors.New("package not found in registry")

// CollisionError reports naming conflicts detected by the registry during an
// upload. It is recoverable through the engine's single-retry state machine.
type CollisionError struct {
	Conflicts []collision.SkillConflict
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("upload rejected: %d skill name conflict(s)", len(e.Conflicts))
}

// AsCollision extracts a *CollisionError from an error chain, or nil.
func AsCollision(err error) *CollisionError {
	var ce *CollisionError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}
