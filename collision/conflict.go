// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package collision

import (
	"encoding/json"
	"fmt"
)

// Action is one of the closed set of ways the registry can handle a
// conflicting skill name on a retried publish.
type Action int

const (
	// ActionLink attaches the publish to the existing registry entry instead
	// of re-uploading identical content.
	ActionLink Action = iota

	// ActionNamespace republishes the skill under the caller's namespace.
	ActionNamespace

	// ActionUpdateVersion publishes the content as a new version of the
	// existing entry.
	ActionUpdateVersion

	// ActionCancel abandons resolution for the skill. Choosing it aborts the
	// whole publish.
	ActionCancel
)

var actionNames = map[Action]string{
	ActionLink:          "link",
	ActionNamespace:     "namespace",
	ActionUpdateVersion: "updateVersion",
	ActionCancel:        "cancel",
}

var actionValues = map[string]Action{
	"link":          ActionLink,
	"namespace":     ActionNamespace,
	"updateVersion": ActionUpdateVersion,
	"cancel":        ActionCancel,
}

// String returns the wire name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// MarshalJSON encodes the action as its wire name.
func (a Action) MarshalJSON() ([]byte, error) {
	name, ok := actionNames[a]
	if !ok {
		return nil, fmt.Errorf("unknown action %d", int(a))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes an action from its wire name.
func (a *Action) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	action, ok := actionValues[name]
	if !ok {
		return fmt.Errorf("unknown conflict action %q", name)
	}
	*a = action
	return nil
}

// SkillConflict is one registry-reported naming conflict from a failed
// publish attempt. Conflicts are transient: produced by one upload call,
// consumed by the next, never persisted.
type SkillConflict struct {
	SkillID          string   `json:"skillId"`
	Exists           bool     `json:"exists"`
	CanPublish       bool     `json:"canPublish"`
	LatestVersion    string   `json:"latestVersion,omitempty"`
	Owner            string   `json:"owner,omitempty"`
	AvailableActions []Action `json:"availableActions"`
	ContentUnchanged bool     `json:"contentUnchanged"`
}

// Allows reports whether the registry offered the given action for this
// conflict, regardless of the ordering of AvailableActions.
func (c SkillConflict) Allows(action Action) bool {
	for _, a := range c.AvailableActions {
		if a == action {
			return true
		}
	}
	return false
}

// Resolution is the chosen handling for one conflicting skill.
type Resolution struct {
	Action Action `json:"action"`
}

// Strategy maps skill IDs to their chosen resolutions. A strategy is applied
// atomically: a retried publish either succeeds fully with it or fails and
// the strategy is discarded.
type Strategy map[string]Resolution

// Merge returns a new strategy containing entries from both. Entries in other
// win on overlapping skill IDs.
func (s Strategy) Merge(other Strategy) Strategy {
	merged := make(Strategy, len(s)+len(other))
	for id, res := range s {
		merged[id] = res
	}
	for id, res := range other {
		merged[id] = res
	}
	return merged
}
