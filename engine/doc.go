// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package engine sequences the publish and fetch flows: reference parsing,
// registry routing, version resolution, archive packing/unpacking, registry
// RPCs, and collision handling.
//
// The engine owns no policy beyond sequencing and the collision retry state
// machine: exactly one retried upload is permitted per publish call, and a
// second collision on the retried attempt is terminal. Operations are
// strictly sequential with no shared mutable state across calls; callers
// serialize operations against the same profile directory themselves.
package engine
