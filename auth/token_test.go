// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/token", r.URL.Path)

		var req tokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice", req.Username)
		require.Equal(t, "refresh-123", req.RefreshToken)

		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "access-456"})
	}))
	defer srv.Close()

	x := NewHTTPTokenExchanger(nil)
	token, err := x.ExchangeToken(t.Context(), RegistryCredential{
		RegistryURL:  srv.URL,
		Username:     "alice",
		RefreshToken: "refresh-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "access-456", token)
}

func TestExchangeToken_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad refresh token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	x := NewHTTPTokenExchanger(nil)
	_, err := x.ExchangeToken(t.Context(), RegistryCredential{
		RegistryURL:  srv.URL,
		Username:     "alice",
		RefreshToken: "stale",
	})
	require.Error(t, err)

	var authErr *AuthenticationFailedError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "alice", authErr.Username)
	assert.Contains(t, authErr.Error(), "alice")
}

func TestExchangeToken_InvalidRegistryURL(t *testing.T) {
	t.Parallel()

	x := NewHTTPTokenExchanger(nil)
	_, err := x.ExchangeToken(t.Context(), RegistryCredential{
		RegistryURL: "not-a-url",
		Username:    "alice",
	})
	var authErr *AuthenticationFailedError
	require.ErrorAs(t, err, &authErr)
}
