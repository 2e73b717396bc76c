// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"
)

// FileEntry is one file inside an archive.
type FileEntry struct {
	Path    string // slash-separated path within the archive
	Content []byte
	Mode    int64 // defaults to 0644
}

// maxFileSize is the per-file size limit during extraction (100MB). This
// prevents decompression bombs.
const maxFileSize int64 = 100 * 1024 * 1024

// createTar builds a reproducible tar from the given files: sorted entries,
// normalized headers, all timestamps pinned to epoch.
func createTar(files []FileEntry, epoch time.Time) ([]byte, error) {
	sorted := make([]FileEntry, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	for _, f := range sorted {
		mode := f.Mode
		if mode == 0 {
			mode = 0o644
		}

		hdr := &tar.Header{
			Name:     f.Path,
			Size:     int64(len(f.Content)),
			Mode:     mode,
			ModTime:  epoch,
			Uid:      0,
			Gid:      0,
			Typeflag: tar.TypeReg,
			Format:   tar.FormatPAX,
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("writing tar header for %s: %w", f.Path, err)
		}
		if _, err := tw.Write(f.Content); err != nil {
			return nil, fmt.Errorf("writing tar content for %s: %w", f.Path, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing tar writer: %w", err)
	}

	return buf.Bytes(), nil
}

// extractTar reads files out of a tar archive. It rejects symlinks,
// hardlinks, device entries, and paths containing traversal sequences.
func extractTar(data []byte) ([]FileEntry, error) {
	tr := tar.NewReader(bytes.NewReader(data))
	var files []FileEntry

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar header: %w", err)
		}

		if err := validateTarPath(hdr.Name); err != nil {
			return nil, err
		}

		if hdr.Typeflag == tar.TypeDir {
			continue
		}
		if hdr.Typeflag == tar.TypeSymlink || hdr.Typeflag == tar.TypeLink {
			return nil, fmt.Errorf("archive contains disallowed link type: %s", hdr.Name)
		}
		if hdr.Typeflag != tar.TypeReg {
			return nil, fmt.Errorf("archive contains disallowed entry type %d: %s", hdr.Typeflag, hdr.Name)
		}

		if hdr.Size > maxFileSize {
			return nil, fmt.Errorf("file %s exceeds maximum size of %d bytes", hdr.Name, maxFileSize)
		}

		limited := io.LimitReader(tr, maxFileSize+1)
		content, err := io.ReadAll(limited)
		if err != nil {
			return nil, fmt.Errorf("reading tar content for %s: %w", hdr.Name, err)
		}
		if int64(len(content)) > maxFileSize {
			return nil, fmt.Errorf("file %s exceeds maximum size of %d bytes", hdr.Name, maxFileSize)
		}

		files = append(files, FileEntry{
			Path:    hdr.Name,
			Content: content,
			Mode:    hdr.Mode,
		})
	}

	return files, nil
}

// validateTarPath checks that a tar entry path cannot escape the extraction
// root.
func validateTarPath(p string) error {
	cleaned := path.Clean(p)
	if strings.HasPrefix(cleaned, "..") {
		return fmt.Errorf("path traversal detected in archive: %s", p)
	}
	if path.IsAbs(cleaned) {
		return fmt.Errorf("absolute path not allowed in archive: %s", p)
	}
	return nil
}
