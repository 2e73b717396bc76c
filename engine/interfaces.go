// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"

	"github.com/tilework-tech/nori-core/archive"
	"github.com/tilework-tech/nori-core/auth"
	"github.com/tilework-tech/nori-core/registry"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// RegistryClient is the subset of registry operations the engine drives.
// *registry.HTTPClient satisfies it.
type RegistryClient interface {
	// GetPackageMetadata retrieves the packument for a package.
	GetPackageMetadata(ctx context.Context, req registry.MetadataRequest) (*registry.Packument, error)
	// Upload publishes a version archive.
	Upload(ctx context.Context, req registry.UploadRequest) (*registry.UploadResult, error)
	// Download retrieves a version archive.
	Download(ctx context.Context, req registry.DownloadRequest) ([]byte, error)
}

// Archiver packs a package directory into an archive and unpacks one back
// onto disk.
type Archiver interface {
	// Pack builds a compressed archive from the contents of dir.
	Pack(dir string) (*archive.PackResult, error)
	// Unpack extracts an archive into targetDir.
	Unpack(data []byte, targetDir string) error
}

// TokenSource exchanges a stored credential for a short-lived access token.
// *auth.HTTPTokenExchanger satisfies it.
type TokenSource interface {
	ExchangeToken(ctx context.Context, cred auth.RegistryCredential) (string, error)
}

// DirArchiver is the default Archiver backed by the archive package.
type DirArchiver struct {
	// Opts control archive construction. The zero value is usable; Pack
	// falls back to archive.DefaultPackOptions when Opts is nil.
	Opts *archive.PackOptions
}

// Pack implements Archiver.
func (d *DirArchiver) Pack(dir string) (*archive.PackResult, error) {
	opts := d.Opts
	if opts == nil {
		o := archive.DefaultPackOptions()
		opts = &o
	}
	return archive.Pack(dir, *opts)
}

// Unpack implements Archiver.
func (d *DirArchiver) Unpack(data []byte, targetDir string) error {
	return archive.Unpack(data, targetDir)
}
