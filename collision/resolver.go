// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package collision

import (
	"context"
	"errors"
	"fmt"
)

// ErrResolutionCancelled reports that the user abandoned interactive conflict
// resolution. No partial strategy is ever applied after cancellation.
var ErrResolutionCancelled = errors.New("conflict resolution cancelled")

// ChooseFunc asks the user to pick an action for one unresolved conflict.
// It may block indefinitely awaiting input.
type ChooseFunc func(ctx context.Context, conflict SkillConflict) (Action, error)

// Classify splits conflicts into an auto-resolution strategy and the
// remainder that needs a caller decision.
//
// A conflict auto-resolves to ActionLink iff its content is unchanged and
// the registry offered the link action. Classification is pure and
// order-insensitive with respect to AvailableActions.
func Classify(conflicts []SkillConflict) (Strategy, []SkillConflict) {
	auto := make(Strategy)
	var unresolved []SkillConflict

	for _, c := range conflicts {
		if c.ContentUnchanged && c.Allows(ActionLink) {
			auto[c.SkillID] = Resolution{Action: ActionLink}
			continue
		}
		unresolved = append(unresolved, c)
	}

	return auto, unresolved
}

// ResolveInteractively asks choose for an action per unresolved conflict, in
// the order given, and assembles a strategy.
//
// Choosing ActionCancel for any conflict abandons the whole attempt with
// ErrResolutionCancelled; no partial strategy is returned. A panic inside the
// callback is recovered and surfaced as an error rather than unwinding
// through the publish flow.
func ResolveInteractively(ctx context.Context, unresolved []SkillConflict, choose ChooseFunc) (Strategy, error) {
	strategy := make(Strategy, len(unresolved))

	for _, conflict := range unresolved {
		action, err := safeChoose(ctx, choose, conflict)
		if err != nil {
			return nil, err
		}

		if action == ActionCancel {
			return nil, fmt.Errorf("resolving %q: %w", conflict.SkillID, ErrResolutionCancelled)
		}

		if !conflict.Allows(action) {
			return nil, fmt.Errorf("action %q not available for skill %q", action, conflict.SkillID)
		}

		strategy[conflict.SkillID] = Resolution{Action: action}
	}

	return strategy, nil
}

// safeChoose invokes the user callback with panic recovery.
func safeChoose(ctx context.Context, choose ChooseFunc, conflict SkillConflict) (action Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conflict chooser panicked on skill %q: %v", conflict.SkillID, r)
		}
	}()
	return choose(ctx, conflict)
}
