// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package auth models registry credentials and exchanges them for short-lived
// access tokens.
//
// Credentials are loaded read-only from the user's credentials file (one entry
// per registry or organization the user has logged into) and are never mutated
// by this module. A credential carrying a non-empty organization list is a
// "unified" credential: it grants access to every listed organization's
// registry through a single login.
package auth
