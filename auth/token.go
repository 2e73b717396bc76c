// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tilework-tech/nori-core/validation"
)

// TokenExchanger turns a stored credential into a short-lived access token.
type TokenExchanger interface {
	// ExchangeToken exchanges the credential for an access token usable as a
	// bearer token against the credential's registry.
	ExchangeToken(ctx context.Context, cred RegistryCredential) (string, error)
}

// AuthenticationFailedError reports a rejected token exchange.
type AuthenticationFailedError struct {
	Username    string
	RegistryURL string
	Err         error
}

// Error implements the error interface.
func (e *AuthenticationFailedError) Error() string {
	return fmt.Sprintf("authentication failed for %s at %s: %v", e.Username, e.RegistryURL, e.Err)
}

// Unwrap returns the underlying error.
func (e *AuthenticationFailedError) Unwrap() error {
	return e.Err
}

// HTTPTokenExchanger exchanges refresh tokens for access tokens against a
// registry's token endpoint.
type HTTPTokenExchanger struct {
	client *http.Client
}

var _ TokenExchanger = (*HTTPTokenExchanger)(nil)

// NewHTTPTokenExchanger creates a token exchanger. If client is nil, a client
// with a 30 second timeout is used.
func NewHTTPTokenExchanger(client *http.Client) *HTTPTokenExchanger {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPTokenExchanger{client: client}
}

// tokenRequest is the wire shape posted to the token endpoint.
type tokenRequest struct {
	Username     string `json:"username"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Password     string `json:"password,omitempty"`
}

// tokenResponse is the wire shape returned by the token endpoint.
type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// ExchangeToken posts the credential's refresh token (or password, for legacy
// registries) to the registry's token endpoint and returns the access token.
func (x *HTTPTokenExchanger) ExchangeToken(ctx context.Context, cred RegistryCredential) (string, error) {
	if err := validation.ValidateRegistryURL(cred.RegistryURL); err != nil {
		return "", &AuthenticationFailedError{Username: cred.Username, RegistryURL: cred.RegistryURL, Err: err}
	}

	body, err := json.Marshal(tokenRequest{
		Username:     cred.Username,
		RefreshToken: cred.RefreshToken,
		Password:     cred.Password,
	})
	if err != nil {
		return "", fmt.Errorf("encoding token request: %w", err)
	}

	url := cred.RegistryURL + "/api/v1/auth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return "", &AuthenticationFailedError{Username: cred.Username, RegistryURL: cred.RegistryURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &AuthenticationFailedError{
			Username:    cred.Username,
			RegistryURL: cred.RegistryURL,
			Err:         fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, string(msg)),
		}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}

	if err := validation.ValidateAuthHeaderValue(tr.AccessToken); err != nil {
		return "", &AuthenticationFailedError{
			Username:    cred.Username,
			RegistryURL: cred.RegistryURL,
			Err:         fmt.Errorf("registry returned unusable token: %w", err),
		}
	}

	return tr.AccessToken, nil
}
