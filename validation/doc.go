// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package validation provides validation functions for package names,
// registry URLs, and HTTP header values sent to registries.
package validation
