// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilework-tech/nori-core/auth"
	"github.com/tilework-tech/nori-core/reference"
)

func mustParse(t *testing.T, spec string) reference.PackageReference {
	t.Helper()
	ref, err := reference.Parse(spec)
	require.NoError(t, err)
	return ref
}

func publicCred() auth.RegistryCredential {
	return auth.RegistryCredential{
		RegistryURL:  DefaultRegistryURL,
		Username:     "alice",
		RefreshToken: "tok-public",
	}
}

func unifiedCred(orgs ...string) auth.RegistryCredential {
	return auth.RegistryCredential{
		RegistryURL:   "https://api.nori.dev",
		Username:      "alice",
		RefreshToken:  "tok-unified",
		Organizations: orgs,
	}
}

func TestOrgRegistryURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://myorg.registry.nori.dev", OrgRegistryURL("myorg"))
}

func TestRoute_UnifiedScope(t *testing.T) {
	t.Parallel()

	target, err := Route(mustParse(t, "myorg/my-profile"), []auth.RegistryCredential{unifiedCred("myorg")}, "", OpPublish)
	require.NoError(t, err)
	assert.Equal(t, "https://myorg.registry.nori.dev", target.RegistryURL)
	require.NotNil(t, target.Credential)
	assert.Equal(t, "tok-unified", target.Credential.RefreshToken)
}

func TestRoute_OrganizationAccessDenied(t *testing.T) {
	t.Parallel()

	_, err := Route(mustParse(t, "otherorg/skill"), []auth.RegistryCredential{unifiedCred("myorg", "acme")}, "", OpPublish)
	require.Error(t, err)

	var denied *OrganizationAccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "otherorg", denied.Scope)
	assert.Equal(t, []string{"myorg", "acme"}, denied.Available)
}

func TestRoute_ScopedWithoutUnifiedCredential(t *testing.T) {
	t.Parallel()

	_, err := Route(mustParse(t, "myorg/skill"), []auth.RegistryCredential{publicCred()}, "", OpPublish)

	var denied *OrganizationAccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Empty(t, denied.Available)
}

func TestRoute_ExplicitMatchesStoredURL(t *testing.T) {
	t.Parallel()

	creds := []auth.RegistryCredential{publicCred()}
	target, err := Route(mustParse(t, "test-skill"), creds, DefaultRegistryURL, OpFetch)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegistryURL, target.RegistryURL)
}

func TestRoute_ExplicitMatchesOrgDerivedURL(t *testing.T) {
	t.Parallel()

	// The explicit registry wins even when the reference's own scope would
	// route elsewhere.
	creds := []auth.RegistryCredential{unifiedCred("myorg", "acme")}
	target, err := Route(mustParse(t, "test-skill"), creds, OrgRegistryURL("acme"), OpPublish)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.registry.nori.dev", target.RegistryURL)
	assert.Equal(t, "tok-unified", target.Credential.RefreshToken)
}

func TestRoute_ExplicitNoCredential(t *testing.T) {
	t.Parallel()

	_, err := Route(mustParse(t, "test-skill"), []auth.RegistryCredential{publicCred()}, "https://other.example.com", OpPublish)

	var noCred *NoCredentialForRegistryError
	require.ErrorAs(t, err, &noCred)
	assert.Equal(t, "https://other.example.com", noCred.RegistryURL)
}

func TestRoute_ExplicitExactMatchOnly(t *testing.T) {
	t.Parallel()

	// Trailing slashes do not normalize: exact string equality is required.
	_, err := Route(mustParse(t, "test-skill"), []auth.RegistryCredential{publicCred()}, DefaultRegistryURL+"/", OpPublish)
	var noCred *NoCredentialForRegistryError
	require.ErrorAs(t, err, &noCred)
}

func TestRoute_PublicPublishRequiresAuth(t *testing.T) {
	t.Parallel()

	_, err := Route(mustParse(t, "test-skill"), nil, "", OpPublish)
	require.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestRoute_PublicFetchAnonymous(t *testing.T) {
	t.Parallel()

	target, err := Route(mustParse(t, "test-skill"), nil, "", OpFetch)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegistryURL, target.RegistryURL)
	assert.True(t, target.Anonymous())
}

func TestRoute_LegacySingleRegistry(t *testing.T) {
	t.Parallel()

	legacy := auth.RegistryCredential{RegistryURL: "https://registry.corp.example.com", Username: "bob"}
	target, err := Route(mustParse(t, "test-skill"), []auth.RegistryCredential{legacy}, "", OpPublish)
	require.NoError(t, err)
	assert.Equal(t, "https://registry.corp.example.com", target.RegistryURL)
}

func TestRoute_LegacyAmbiguous(t *testing.T) {
	t.Parallel()

	creds := []auth.RegistryCredential{
		{RegistryURL: "https://registry-a.example.com", Username: "bob"},
		{RegistryURL: "https://registry-b.example.com", Username: "bob"},
	}

	_, err := Route(mustParse(t, "test-skill"), creds, "", OpPublish)

	var ambiguous *AmbiguousRegistryError
	require.ErrorAs(t, err, &ambiguous)
	assert.ElementsMatch(t,
		[]string{"https://registry-a.example.com", "https://registry-b.example.com"},
		ambiguous.Candidates)
}

func TestRoute_ExplicitMalformedURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
	}{
		{"no scheme", "registry.nori.dev"},
		{"bad scheme", "ftp://registry.nori.dev"},
		{"no host", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Route(mustParse(t, "test-skill"), []auth.RegistryCredential{publicCred()}, tt.url, OpFetch)
			require.Error(t, err)
		})
	}
}
