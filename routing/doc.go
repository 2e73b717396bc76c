// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package routing selects the single registry endpoint and credential for a
// parsed package reference.
//
// Routing is a pure decision over the caller's loaded credentials plus one
// deterministic helper (OrgRegistryURL). It performs no network or filesystem
// access; every failure is a typed error surfaced before any RPC is issued.
package routing
