// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rng       string
		available []string
		want      string
		ok        bool
	}{
		{
			name:      "caret picks highest compatible",
			rng:       "^1.0.0",
			available: []string{"1.0.0", "1.1.0", "1.2.0", "2.0.0"},
			want:      "1.2.0",
			ok:        true,
		},
		{
			name:      "tilde pins minor",
			rng:       "~1.0.0",
			available: []string{"1.0.0", "1.0.1", "1.0.2", "1.1.0"},
			want:      "1.0.2",
			ok:        true,
		},
		{
			name:      "no match",
			rng:       "^2.0.0",
			available: []string{"1.0.0", "1.1.0"},
			ok:        false,
		},
		{
			name:      "wildcard picks highest",
			rng:       "*",
			available: []string{"0.9.0", "2.3.1", "1.5.0"},
			want:      "2.3.1",
			ok:        true,
		},
		{
			name:      "exact match",
			rng:       "1.1.0",
			available: []string{"1.0.0", "1.1.0", "1.2.0"},
			want:      "1.1.0",
			ok:        true,
		},
		{
			name:      "empty available",
			rng:       "^1.0.0",
			available: nil,
			ok:        false,
		},
		{
			name:      "numeric not lexical ordering",
			rng:       "^1.0.0",
			available: []string{"1.2.0", "1.10.0", "1.9.0"},
			want:      "1.10.0",
			ok:        true,
		},
		{
			name:      "unparsable versions skipped",
			rng:       "^1.0.0",
			available: []string{"garbage", "1.1.0"},
			want:      "1.1.0",
			ok:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ResolveRange(tt.rng, tt.available)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidRange(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidRange("^1.0.0"))
	require.NoError(t, ValidRange("~2.1.0"))
	require.NoError(t, ValidRange("*"))
	require.NoError(t, ValidRange("1.2.3"))
	require.Error(t, ValidRange("not a range !!"))
}
