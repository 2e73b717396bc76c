// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package manifest owns the two local file formats of the publish/resolve
// engine: the per-profile dependency manifest (skills.json) mapping skill
// names to version ranges, and the per-skill installed-version marker
// (.nori-version).
//
// Both formats are validated against embedded JSON schemas before use. A
// missing file is never an error; a malformed one always is.
package manifest
