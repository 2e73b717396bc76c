// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package reference parses package reference strings into routable coordinates.
//
// A reference names a skill or profile in a registry and takes one of four
// forms:
//
//	name
//	name@version
//	scope/name
//	scope/name@version
//
// The scope defaults to "public" when omitted. The version, when present, is
// an exact semantic version; its absence means "resolve automatically".
package reference
