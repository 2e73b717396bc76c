// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package collision classifies registry-reported naming conflicts and builds
// per-skill resolution strategies for retried publishes.
//
// A conflict is auto-resolvable only when the bytes being published are
// identical to what the registry already holds under that name and the
// registry offers the link action. Everything else needs a caller decision,
// supplied through an interactive callback.
package collision
