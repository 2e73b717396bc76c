// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package version decides which semantic version a publish or fetch operates
// on.
//
// Publishes with no explicit version auto-bump the patch component of the
// registry's "latest" dist-tag, falling back to 1.0.0 for packages that have
// never been published. Fetches resolve against installed-version markers so
// a download is skipped when the local copy is already current or newer.
// Range resolution supports exact, caret, tilde, and wildcard ranges with
// full semantic-version precedence.
package version
