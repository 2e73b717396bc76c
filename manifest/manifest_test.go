// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
}

func TestRead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, `{
  "writing-plans": "^1.0.0",
  "deploy-helper": {"version": "~2.1.0"}
}`)

	deps, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, []Dependency{
		{Name: "deploy-helper", VersionRange: "~2.1.0"},
		{Name: "writing-plans", VersionRange: "^1.0.0"},
	}, deps)
}

func TestRead_MissingFileIsNil(t *testing.T) {
	t.Parallel()

	deps, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, deps)
}

func TestRead_MalformedIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, `{broken`)

	_, err := Read(dir)
	require.Error(t, err)
}

func TestRead_SchemaViolation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Entry value is neither a string nor {"version": ...}.
	writeManifest(t, dir, `{"writing-plans": 42}`)

	_, err := Read(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestWrite_Format(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, Write(dir, []Dependency{
		{Name: "b-skill", VersionRange: "2.0.0"},
		{Name: "a-skill", VersionRange: "^1.0.0"},
	}))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	// Keys sorted, 2-space indentation, bare-string form.
	assert.Equal(t, "{\n  \"a-skill\": \"^1.0.0\",\n  \"b-skill\": \"2.0.0\"\n}\n", string(data))
}

func TestAddOrUpdate_PreservesUnrelatedKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, `{"a": "^1.0.0", "b": "2.0.0"}`)

	require.NoError(t, AddOrUpdate(dir, "x", "*"))

	var got map[string]string
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, map[string]string{"a": "^1.0.0", "b": "2.0.0", "x": "*"}, got)
}

func TestAddOrUpdate_OverwritesExistingKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, `{"a": "^1.0.0"}`)

	require.NoError(t, AddOrUpdate(dir, "a", "^2.0.0"))

	deps, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, []Dependency{{Name: "a", VersionRange: "^2.0.0"}}, deps)
}

func TestAddOrUpdate_NormalizesObjectFormToString(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, `{"a": {"version": "^1.0.0"}}`)

	require.NoError(t, AddOrUpdate(dir, "x", "*"))

	// Untouched entries may normalize to the bare-string form; the range
	// value itself must survive.
	deps, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, []Dependency{
		{Name: "a", VersionRange: "^1.0.0"},
		{Name: "x", VersionRange: "*"},
	}, deps)
}

func TestAddOrUpdate_MissingManifestTreatedAsEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, AddOrUpdate(dir, "only", "^3.0.0"))

	deps, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, []Dependency{{Name: "only", VersionRange: "^3.0.0"}}, deps)
}
