// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"time"
)

// gzipOSUnknown is the OS value for "unknown" in gzip headers (RFC 1952).
// Using this value keeps output identical across platforms.
const gzipOSUnknown = 255

// maxDecompressedSize limits decompressed data (100MB) against bombs.
const maxDecompressedSize int64 = 100 * 1024 * 1024

// compress gzips data with a fully pinned header for reproducibility.
func compress(data []byte, epoch time.Time) ([]byte, error) {
	var buf bytes.Buffer
	gw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}

	gw.ModTime = epoch
	gw.Name = ""
	gw.Comment = ""
	gw.OS = gzipOSUnknown

	if _, err := gw.Write(data); err != nil {
		return nil, fmt.Errorf("writing gzip data: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// decompress gunzips data with a size limit.
func decompress(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer func() { _ = gr.Close() }()

	limited := io.LimitReader(gr, maxDecompressedSize+1)
	result, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("reading gzip data: %w", err)
	}
	if int64(len(result)) > maxDecompressedSize {
		return nil, fmt.Errorf("decompressed data exceeds maximum size of %d bytes", maxDecompressedSize)
	}

	return result, nil
}
