// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package registry is the client for the nori package registry's JSON/HTTP
// API: package metadata ("packument") fetches, archive uploads, and archive
// downloads.
//
// Reads retry transparently on 429 and 5xx responses with exponential
// backoff. Uploads are never retried by this package: collision handling and
// its single permitted retry belong to the engine package.
package registry
