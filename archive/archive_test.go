// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSkillDir creates a minimal skill directory with SKILL.md frontmatter.
func writeSkillDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	skillMD := `---
name: writing-plans
description: Plan documents before building
version: 1.0.0
allowed-tools: read, write
---

# Writing plans
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(skillMD), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "run.sh"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("secret"), 0o644))
	return dir
}

func TestPack_ParsesSkillMeta(t *testing.T) {
	t.Parallel()

	result, err := Pack(writeSkillDir(t), DefaultPackOptions())
	require.NoError(t, err)

	require.NotNil(t, result.Meta)
	assert.Equal(t, "writing-plans", result.Meta.Name)
	assert.Equal(t, "Plan documents before building", result.Meta.Description)
	assert.Equal(t, []string{"read", "write"}, []string(result.Meta.AllowedTools))
	assert.NotEmpty(t, result.Data)
	assert.Equal(t, "sha256", string(result.Digest.Algorithm()))
}

func TestPack_Reproducible(t *testing.T) {
	t.Parallel()

	dir := writeSkillDir(t)
	opts := PackOptions{Epoch: time.Unix(0, 0).UTC()}

	a, err := Pack(dir, opts)
	require.NoError(t, err)
	b, err := Pack(dir, opts)
	require.NoError(t, err)

	assert.Equal(t, a.Digest, b.Digest, "identical content must yield identical digests")
	assert.Equal(t, a.Data, b.Data)
}

func TestPack_NoSkillMD(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("profile notes"), 0o644))

	result, err := Pack(dir, DefaultPackOptions())
	require.NoError(t, err)
	assert.Nil(t, result.Meta, "profiles without SKILL.md pack fine")
}

func TestPack_EmptyDir(t *testing.T) {
	t.Parallel()

	_, err := Pack(t.TempDir(), DefaultPackOptions())
	require.Error(t, err)
}

func TestPack_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := Pack(filepath.Join(t.TempDir(), "nope"), DefaultPackOptions())
	require.Error(t, err)
}

func TestPack_RejectsSymlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "real.txt"), filepath.Join(dir, "sneaky.txt")))

	_, err := Pack(dir, DefaultPackOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink")
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	t.Parallel()

	src := writeSkillDir(t)
	result, err := Pack(src, DefaultPackOptions())
	require.NoError(t, err)

	dst := t.TempDir()
	require.NoError(t, Unpack(result.Data, filepath.Join(dst, "out")))

	skillMD, err := os.ReadFile(filepath.Join(dst, "out", "SKILL.md"))
	require.NoError(t, err)
	assert.Contains(t, string(skillMD), "writing-plans")

	script, err := os.ReadFile(filepath.Join(dst, "out", "scripts", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n", string(script))

	// Hidden files are never packed.
	_, err = os.Stat(filepath.Join(dst, "out", ".hidden"))
	assert.True(t, os.IsNotExist(err))
}

func TestUnpack_RejectsTraversal(t *testing.T) {
	t.Parallel()

	tarData, err := createTar([]FileEntry{{Path: "../escape.txt", Content: []byte("x")}}, time.Unix(0, 0).UTC())
	require.NoError(t, err)
	data, err := compress(tarData, time.Unix(0, 0).UTC())
	require.NoError(t, err)

	err = Unpack(data, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "traversal")
}

func TestUnpack_GarbageBytes(t *testing.T) {
	t.Parallel()

	require.Error(t, Unpack([]byte("not a gzip"), t.TempDir()))
}

func TestParseSkillMeta_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseSkillMeta([]byte("no frontmatter here"))
	require.Error(t, err)

	_, err = ParseSkillMeta([]byte("---\nname: x\n"))
	require.Error(t, err, "unclosed frontmatter")
}

func TestParseSkillMeta_AllowedToolsForms(t *testing.T) {
	t.Parallel()

	meta, err := ParseSkillMeta([]byte("---\nname: x\nallowed-tools:\n  - read\n  - write\n---\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "write"}, []string(meta.AllowedTools))

	meta, err = ParseSkillMeta([]byte("---\nname: x\nallowed-tools: read write\n---\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "write"}, []string(meta.AllowedTools))
}
