// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package routing

import (
	"fmt"

	"github.com/tilework-tech/nori-core/auth"
	"github.com/tilework-tech/nori-core/reference"
	"github.com/tilework-tech/nori-core/validation"
)

// RegistryDomain is the apex domain under which organization registries live.
const RegistryDomain = "registry.nori.dev"

// DefaultRegistryURL is the public (unscoped) registry endpoint.
const DefaultRegistryURL = "https://" + RegistryDomain

// OrgRegistryURL derives the registry endpoint for an organization.
// The derivation is deterministic: every organization registry is a subdomain
// of RegistryDomain.
func OrgRegistryURL(orgID string) string {
	return fmt.Sprintf("https://%s.%s", orgID, RegistryDomain)
}

// Operation distinguishes publish routing from fetch routing. Public fetches
// may proceed anonymously; public publishes require a credential.
type Operation int

const (
	// OpPublish routes an upload.
	OpPublish Operation = iota

	// OpFetch routes a metadata read or download.
	OpFetch
)

// ResolvedTarget is the output of routing: exactly one registry endpoint and
// the credential to use against it. Credential is nil only for anonymous
// public fetches.
type ResolvedTarget struct {
	RegistryURL string
	Credential  *auth.RegistryCredential
}

// Anonymous reports whether the target carries no credential.
func (t ResolvedTarget) Anonymous() bool {
	return t.Credential == nil
}

// Route selects the registry endpoint and credential for ref.
//
// Priority order:
//  1. An explicit registry URL must match a stored credential's URL or an
//     organization-derived URL covered by a unified credential.
//  2. A unified credential routes non-public scopes to the scope's derived
//     organization URL, provided the caller belongs to that organization.
//  3. Public references use the credential targeting the public registry;
//     fetches fall back to anonymous access, publishes fail.
//  4. Any other non-public scope is denied.
//
// Legacy configurations (multiple single-registry credentials, no unified
// credential) with more than one plausible candidate fail with
// *AmbiguousRegistryError rather than silently picking one.
func Route(ref reference.PackageReference, credentials []auth.RegistryCredential, explicitRegistryURL string, op Operation) (ResolvedTarget, error) {
	if explicitRegistryURL != "" {
		return routeExplicit(credentials, explicitRegistryURL)
	}

	unified := findUnified(credentials)

	if !ref.IsPublic() {
		if unified == nil {
			return ResolvedTarget{}, &OrganizationAccessDeniedError{Scope: ref.Scope}
		}
		if !unified.HasOrganization(ref.Scope) {
			return ResolvedTarget{}, &OrganizationAccessDeniedError{
				Scope:     ref.Scope,
				Available: unified.Organizations,
			}
		}
		return ResolvedTarget{RegistryURL: OrgRegistryURL(ref.Scope), Credential: unified}, nil
	}

	return routePublic(credentials, op)
}

// routeExplicit matches an explicit registry URL against stored credentials.
// URL comparison is exact string equality: near-miss URLs (trailing slash,
// scheme case) do not normalize.
func routeExplicit(credentials []auth.RegistryCredential, registryURL string) (ResolvedTarget, error) {
	if err := validation.ValidateRegistryURL(registryURL); err != nil {
		return ResolvedTarget{}, err
	}

	for i := range credentials {
		cred := &credentials[i]
		if cred.RegistryURL == registryURL {
			return ResolvedTarget{RegistryURL: registryURL, Credential: cred}, nil
		}
		for _, org := range cred.Organizations {
			if OrgRegistryURL(org) == registryURL {
				return ResolvedTarget{RegistryURL: registryURL, Credential: cred}, nil
			}
		}
	}
	return ResolvedTarget{}, &NoCredentialForRegistryError{RegistryURL: registryURL}
}

// routePublic selects a credential for the public registry, or falls back to
// anonymous access for fetches.
func routePublic(credentials []auth.RegistryCredential, op Operation) (ResolvedTarget, error) {
	for i := range credentials {
		if credentials[i].RegistryURL == DefaultRegistryURL {
			return ResolvedTarget{RegistryURL: DefaultRegistryURL, Credential: &credentials[i]}, nil
		}
	}

	// Legacy configurations: single-registry credentials pointing at
	// self-hosted registries, no organization scoping.
	var legacy []*auth.RegistryCredential
	for i := range credentials {
		if !credentials[i].IsUnified() {
			legacy = append(legacy, &credentials[i])
		}
	}

	switch len(legacy) {
	case 0:
		if op == OpFetch {
			return ResolvedTarget{RegistryURL: DefaultRegistryURL}, nil
		}
		return ResolvedTarget{}, ErrAuthenticationRequired
	case 1:
		return ResolvedTarget{RegistryURL: legacy[0].RegistryURL, Credential: legacy[0]}, nil
	default:
		candidates := make([]string, 0, len(legacy))
		for _, cred := range legacy {
			candidates = append(candidates, cred.RegistryURL)
		}
		return ResolvedTarget{}, &AmbiguousRegistryError{Candidates: candidates}
	}
}

// findUnified returns the first organization-scoped credential, or nil.
func findUnified(credentials []auth.RegistryCredential) *auth.RegistryCredential {
	for i := range credentials {
		if credentials[i].IsUnified() {
			return &credentials[i]
		}
	}
	return nil
}
