// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/tilework-tech/nori-core/logger"
	"github.com/tilework-tech/nori-core/registry"
)

// InitialVersion is the version assigned to a package's first publish.
const InitialVersion = "1.0.0"

// MetadataFetcher is the subset of the registry client the resolver needs.
type MetadataFetcher interface {
	GetPackageMetadata(ctx context.Context, req registry.MetadataRequest) (*registry.Packument, error)
}

// PublishVersion is the outcome of publish-side version resolution.
type PublishVersion struct {
	Version      string
	IsNewPackage bool
}

// Resolver decides versions using registry metadata.
type Resolver struct {
	metadata MetadataFetcher
}

// NewResolver creates a resolver backed by the given metadata fetcher.
// Panics if metadata is nil.
func NewResolver(metadata MetadataFetcher) *Resolver {
	if metadata == nil {
		panic("version: NewResolver called with nil metadata fetcher")
	}
	return &Resolver{metadata: metadata}
}

// ResolvePublishVersion picks the version for a publish of name.
//
// An explicit version is returned verbatim with no registry call. Otherwise
// the registry's "latest" dist-tag is patch-bumped; a missing package or a
// missing/invalid tag yields InitialVersion and marks the package as new.
func (r *Resolver) ResolvePublishVersion(ctx context.Context, name, explicitVersion, registryURL, authToken string) (PublishVersion, error) {
	if explicitVersion != "" {
		return PublishVersion{Version: explicitVersion}, nil
	}

	packument, err := r.metadata.GetPackageMetadata(ctx, registry.MetadataRequest{
		Name:        name,
		RegistryURL: registryURL,
		AuthToken:   authToken,
	})
	if err != nil {
		// Not published yet (or unreachable metadata): treat as a new package.
		logger.Debugw("metadata fetch failed, treating package as new", "package", name, "error", err.Error())
		return PublishVersion{Version: InitialVersion, IsNewPackage: true}, nil
	}

	latest := packument.Latest()
	if latest == "" {
		return PublishVersion{Version: InitialVersion, IsNewPackage: true}, nil
	}

	v, err := semver.StrictNewVersion(latest)
	if err != nil {
		logger.Warnw("latest dist-tag is not a valid semver, starting over", "package", name, "latest", latest)
		return PublishVersion{Version: InitialVersion, IsNewPackage: true}, nil
	}

	bumped := v.IncPatch()
	return PublishVersion{Version: bumped.String()}, nil
}

// ResolveFetchVersion picks the version to download. An explicit request wins;
// otherwise the "latest" dist-tag is used.
func ResolveFetchVersion(requestedVersion string, packument *registry.Packument) (string, error) {
	if requestedVersion != "" {
		return requestedVersion, nil
	}

	latest := packument.Latest()
	if latest == "" {
		return "", fmt.Errorf("package %q has no %q dist-tag", packument.Name, registry.LatestTag)
	}
	return latest, nil
}

// Decision is the outcome of comparing a requested version against the
// locally installed one.
type Decision int

const (
	// DecisionDownload means the requested version should be downloaded.
	DecisionDownload Decision = iota

	// DecisionAlreadyCurrent means the installed version equals the request:
	// no download.
	DecisionAlreadyCurrent

	// DecisionInstalledNewer means the installed version is newer than the
	// request: no download, and the requested version is ignored.
	DecisionInstalledNewer
)

// CompareInstalled compares a requested version against the installed one
// using semantic-version precedence (prerelease tags included).
func CompareInstalled(requested, installed string) (Decision, error) {
	reqV, err := semver.StrictNewVersion(requested)
	if err != nil {
		return DecisionDownload, fmt.Errorf("invalid requested version %q: %w", requested, err)
	}
	instV, err := semver.StrictNewVersion(installed)
	if err != nil {
		return DecisionDownload, fmt.Errorf("invalid installed version %q: %w", installed, err)
	}

	switch {
	case instV.Equal(reqV):
		return DecisionAlreadyCurrent, nil
	case instV.GreaterThan(reqV):
		return DecisionInstalledNewer, nil
	default:
		return DecisionDownload, nil
	}
}
