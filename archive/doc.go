// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package archive is the byte codec between local skill/profile directories
// and the tar.gz bundles the registry stores.
//
// Packing is reproducible: entries are sorted, timestamps pinned to an epoch
// (SOURCE_DATE_EPOCH is honored), and the gzip header is fixed, so identical
// directory content always yields identical bytes and therefore an identical
// content digest. Unpacking enforces path traversal, link type, and
// decompression-bomb limits.
package archive
