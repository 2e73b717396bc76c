// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"
)

// PackOptions configures packing.
type PackOptions struct {
	// Epoch is the timestamp used for every archive entry. The zero value
	// means Unix epoch.
	Epoch time.Time
}

// DefaultPackOptions returns packing options honoring SOURCE_DATE_EPOCH for
// reproducible builds.
func DefaultPackOptions() PackOptions {
	epoch := time.Unix(0, 0).UTC()
	if sde := os.Getenv("SOURCE_DATE_EPOCH"); sde != "" {
		if ts, err := strconv.ParseInt(sde, 10, 64); err == nil {
			epoch = time.Unix(ts, 0).UTC()
		}
	}
	return PackOptions{Epoch: epoch}
}

// PackResult is a packed directory: the archive bytes, their content digest,
// and the skill metadata found in the directory, if any.
type PackResult struct {
	Data []byte

	// Digest is the sha256 digest of Data. Packing is reproducible, so the
	// digest is stable for identical directory content.
	Digest digest.Digest

	// Meta is the parsed SKILL.md frontmatter, or nil when the directory
	// carries none (profiles need not have one).
	Meta *SkillMeta
}

// Pack packages a skill or profile directory into a reproducible tar.gz.
//
// Hidden files and directories are excluded. Symlinks and non-regular files
// are rejected. If a SKILL.md is present at the root its frontmatter is
// parsed into the result.
func Pack(dir string, opts PackOptions) (*PackResult, error) {
	if opts.Epoch.IsZero() {
		opts.Epoch = time.Unix(0, 0).UTC()
	}

	if err := validateDir(dir); err != nil {
		return nil, err
	}

	files, err := collectFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("directory %s contains no packageable files", dir)
	}

	var meta *SkillMeta
	for _, f := range files {
		if f.Path == SkillMetaFileName {
			meta, err = ParseSkillMeta(f.Content)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", SkillMetaFileName, err)
			}
			break
		}
	}

	tarData, err := createTar(files, opts.Epoch)
	if err != nil {
		return nil, fmt.Errorf("creating tar: %w", err)
	}

	data, err := compress(tarData, opts.Epoch)
	if err != nil {
		return nil, fmt.Errorf("compressing tar: %w", err)
	}

	return &PackResult{
		Data:   data,
		Digest: digest.FromBytes(data),
		Meta:   meta,
	}, nil
}

// Unpack extracts a tar.gz archive into targetDir, creating it if needed.
// Extraction enforces the same safety limits as extractTar.
func Unpack(data []byte, targetDir string) error {
	tarData, err := decompress(data)
	if err != nil {
		return fmt.Errorf("decompressing archive: %w", err)
	}

	files, err := extractTar(tarData)
	if err != nil {
		return fmt.Errorf("extracting archive: %w", err)
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("creating target directory %s: %w", targetDir, err)
	}

	for _, f := range files {
		dest := filepath.Join(targetDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.Path, err)
		}
		mode := fs.FileMode(f.Mode) & 0o777
		if mode == 0 {
			mode = 0o644
		}
		if err := os.WriteFile(dest, f.Content, mode); err != nil {
			return fmt.Errorf("writing %s: %w", f.Path, err)
		}
	}

	return nil
}

// validateDir checks that the directory exists and is safe to read.
func validateDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory not found: %s", dir)
		}
		return fmt.Errorf("accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}

	if strings.Contains(filepath.Clean(dir), "..") {
		return fmt.Errorf("invalid path: contains path traversal")
	}
	return nil
}

// collectFiles walks a directory and returns all regular files, excluding
// hidden entries. Symlinks are rejected outright.
func collectFiles(dir string) ([]FileEntry, error) {
	var files []FileEntry

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == dir {
			return nil
		}

		relPath, err := filepath.Rel(dir, p)
		if err != nil {
			return fmt.Errorf("getting relative path: %w", err)
		}
		relPath = filepath.ToSlash(relPath)

		if strings.HasPrefix(filepath.Base(relPath), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// WalkDir follows symlinked directories silently; reject links.
		if d.Type()&os.ModeSymlink != 0 {
			return fmt.Errorf("symlinks not allowed: %s", relPath)
		}
		if d.IsDir() {
			return nil
		}

		info, err := os.Lstat(p)
		if err != nil {
			return fmt.Errorf("checking file type for %s: %w", relPath, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("non-regular file not allowed: %s", relPath)
		}

		content, err := os.ReadFile(p) //#nosec G304 -- path from WalkDir, symlink-checked
		if err != nil {
			return fmt.Errorf("reading %s: %w", relPath, err)
		}

		files = append(files, FileEntry{
			Path:    relPath,
			Content: content,
			Mode:    int64(info.Mode().Perm()),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return files, nil
}
