// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"time"

	"github.com/tilework-tech/nori-core/collision"
)

// Packument is the registry's metadata document for one package name:
// dist-tags plus the set of published versions. It is fetched read-only.
type Packument struct {
	Name        string               `json:"name"`
	DistTags    map[string]string    `json:"distTags"`
	Versions    []string             `json:"versions"`
	PublishedAt map[string]time.Time `json:"publishedAt,omitempty"`
}

// LatestTag is the conventional dist-tag pointing at the newest release.
const LatestTag = "latest"

// Latest returns the version the "latest" dist-tag points to, or "" if the
// tag is absent.
func (p *Packument) Latest() string {
	return p.DistTags[LatestTag]
}

// MetadataRequest identifies one package whose packument to fetch.
type MetadataRequest struct {
	Name        string
	RegistryURL string
	AuthToken   string
}

// UploadRequest carries one archive to publish.
type UploadRequest struct {
	Name        string
	Version     string
	Archive     []byte
	Description string
	RegistryURL string
	AuthToken   string

	// Strategy is the per-skill conflict resolution to apply, nil on the
	// first attempt.
	Strategy collision.Strategy
}

// SkillSummary splits the skills of a finished publish into newly uploaded
// entries and entries linked to pre-existing registry content.
type SkillSummary struct {
	Uploaded []string `json:"uploaded"`
	Linked   []string `json:"linked"`
}

// UploadResult is the registry's response to a successful upload.
type UploadResult struct {
	Version      string        `json:"version"`
	ContentHash  string        `json:"contentHash"`
	CreatedAt    time.Time     `json:"createdAt"`
	SkillSummary *SkillSummary `json:"skillSummary,omitempty"`
}

// DownloadRequest identifies one archive to download. Version may be empty to
// download whatever "latest" points to.
type DownloadRequest struct {
	Name        string
	Version     string
	RegistryURL string
	AuthToken   string
}
