// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"

	"github.com/tilework-tech/nori-core/auth"
	"github.com/tilework-tech/nori-core/logger"
	"github.com/tilework-tech/nori-core/manifest"
	"github.com/tilework-tech/nori-core/reference"
	"github.com/tilework-tech/nori-core/registry"
	"github.com/tilework-tech/nori-core/routing"
	"github.com/tilework-tech/nori-core/version"
)

// FetchOutcome is what a fetch call ended up doing.
type FetchOutcome int

const (
	// OutcomeDownloaded means the archive was downloaded and installed.
	OutcomeDownloaded FetchOutcome = iota

	// OutcomeAlreadyCurrent means the requested version was already
	// installed: no download.
	OutcomeAlreadyCurrent

	// OutcomeInstalledNewer means a newer version was already installed and
	// the requested one was ignored: no download.
	OutcomeInstalledNewer
)

// FetchRequest describes one fetch operation.
type FetchRequest struct {
	// Reference is the package reference string, [scope/]name[@version].
	Reference string

	// TargetDir is the directory the package is installed into. A
	// .nori-version marker inside it records the installed version.
	TargetDir string

	// ProfileDir, when non-empty, names a profile directory whose skills.json
	// is updated to depend on the fetched package.
	ProfileDir string

	// Credentials are the caller's stored registry credentials.
	Credentials []auth.RegistryCredential

	// RegistryURL overrides routing when non-empty.
	RegistryURL string
}

// FetchResult reports what a fetch did.
type FetchResult struct {
	Name        string
	Version     string
	RegistryURL string
	Outcome     FetchOutcome

	// InstalledVersion is the version found on disk before the fetch, or ""
	// when the target was not previously installed.
	InstalledVersion string
}

// Fetcher drives the fetch flow end to end.
type Fetcher struct {
	registry RegistryClient
	archiver Archiver
	tokens   TokenSource
}

// NewFetcher wires a fetcher from its collaborators. Panics if any of client,
// archiver, or tokens is nil.
func NewFetcher(client RegistryClient, archiver Archiver, tokens TokenSource) *Fetcher {
	if client == nil || archiver == nil || tokens == nil {
		panic("engine: NewFetcher called with nil collaborator")
	}
	return &Fetcher{registry: client, archiver: archiver, tokens: tokens}
}

// Fetch resolves, downloads, and installs the referenced package into
// req.TargetDir.
//
// When the reference names no version the registry's "latest" dist-tag wins.
// If the installed version (per the directory marker) already satisfies the
// request the download is skipped; an installed version newer than the
// request is kept and the request ignored. After installing, a version
// marker is written, and the profile manifest is updated when req.ProfileDir
// is set.
func (f *Fetcher) Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	ref, target, token, err := f.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	want := ref.Version
	if want == "" {
		packument, err := f.registry.GetPackageMetadata(ctx, registry.MetadataRequest{
			Name:        ref.Name,
			RegistryURL: target.RegistryURL,
			AuthToken:   token,
		})
		if err != nil {
			return nil, err
		}
		want, err = version.ResolveFetchVersion("", packument)
		if err != nil {
			return nil, err
		}
	}

	result := &FetchResult{
		Name:        ref.Name,
		Version:     want,
		RegistryURL: target.RegistryURL,
	}

	marker, err := manifest.ReadMarker(req.TargetDir)
	if err != nil {
		return nil, err
	}
	if marker != nil {
		result.InstalledVersion = marker.Version

		decision, err := version.CompareInstalled(want, marker.Version)
		if err != nil {
			return nil, err
		}
		switch decision {
		case version.DecisionAlreadyCurrent:
			result.Outcome = OutcomeAlreadyCurrent
			return result, nil
		case version.DecisionInstalledNewer:
			logger.Infow("installed version is newer, keeping it",
				"package", ref.Name,
				"installed", marker.Version,
				"requested", want,
			)
			result.Outcome = OutcomeInstalledNewer
			return result, nil
		case version.DecisionDownload:
		}
	}

	data, err := f.registry.Download(ctx, registry.DownloadRequest{
		Name:        ref.Name,
		Version:     want,
		RegistryURL: target.RegistryURL,
		AuthToken:   token,
	})
	if err != nil {
		return nil, err
	}

	if err := f.archiver.Unpack(data, req.TargetDir); err != nil {
		return nil, fmt.Errorf("installing %s: %w", ref.Name, err)
	}

	newMarker := manifest.Marker{Version: want, RegistryURL: target.RegistryURL}
	if !ref.IsPublic() {
		newMarker.OrgID = ref.Scope
	}
	if err := manifest.WriteMarker(req.TargetDir, newMarker); err != nil {
		return nil, err
	}

	if req.ProfileDir != "" {
		if err := manifest.AddOrUpdate(req.ProfileDir, ref.Name, "^"+want); err != nil {
			return nil, err
		}
	}

	logger.Infow("fetched package",
		"package", ref.Name,
		"version", want,
		"registry", target.RegistryURL,
	)
	result.Outcome = OutcomeDownloaded
	return result, nil
}

// ListVersions retrieves the packument for the referenced package without
// downloading anything. The reference's version segment, if any, is ignored.
func (f *Fetcher) ListVersions(ctx context.Context, req FetchRequest) (*registry.Packument, error) {
	ref, target, token, err := f.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	return f.registry.GetPackageMetadata(ctx, registry.MetadataRequest{
		Name:        ref.Name,
		RegistryURL: target.RegistryURL,
		AuthToken:   token,
	})
}

// prepare parses the reference, routes it, and exchanges a token when the
// route carries a credential.
func (f *Fetcher) prepare(ctx context.Context, req FetchRequest) (reference.PackageReference, routing.ResolvedTarget, string, error) {
	ref, err := reference.Parse(req.Reference)
	if err != nil {
		return reference.PackageReference{}, routing.ResolvedTarget{}, "", err
	}

	target, err := routing.Route(ref, req.Credentials, req.RegistryURL, routing.OpFetch)
	if err != nil {
		return reference.PackageReference{}, routing.ResolvedTarget{}, "", err
	}

	var token string
	if !target.Anonymous() {
		token, err = f.tokens.ExchangeToken(ctx, *target.Credential)
		if err != nil {
			return reference.PackageReference{}, routing.ResolvedTarget{}, "", err
		}
	}
	return ref, target, token, nil
}
