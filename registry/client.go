// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import "context"

// Client is the registry RPC surface consumed by the resolve/publish engine.
type Client interface {
	// GetPackageMetadata fetches the packument for a package name.
	// Returns ErrPackageNotFound if the package has never been published.
	GetPackageMetadata(ctx context.Context, req MetadataRequest) (*Packument, error)

	// Upload publishes one archive. On naming conflicts it fails with a
	// *CollisionError carrying the registry's conflict report.
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// Download fetches one archive's bytes.
	// Returns ErrPackageNotFound if the package or version does not exist.
	Download(ctx context.Context, req DownloadRequest) ([]byte, error)
}
