// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/http/httpguts"
)

var validNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateName validates a skill, profile, or organization name: lowercase
// alphanumerics and hyphens, starting with an alphanumeric.
// It disallows null bytes explicitly.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if strings.Contains(name, "\x00") {
		return fmt.Errorf("name cannot contain null bytes")
	}

	if name != strings.ToLower(name) {
		return fmt.Errorf("name must be lowercase: %q", name)
	}

	if !validNameRegex.MatchString(name) {
		return fmt.Errorf("name can only contain lowercase alphanumeric characters and hyphens, and must start with an alphanumeric: %q", name)
	}

	return nil
}

// ValidateRegistryURL validates that a registry URL is a usable absolute
// HTTP(S) URL.
//
// A valid registry URL must:
//   - Include an http or https scheme
//   - Include a host
//   - Not contain fragments
func ValidateRegistryURL(registryURL string) error {
	if registryURL == "" {
		return fmt.Errorf("registry URL cannot be empty")
	}

	parsed, err := url.Parse(registryURL)
	if err != nil {
		return fmt.Errorf("invalid registry URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("registry URL must use http or https: %s", registryURL)
	}

	if parsed.Host == "" {
		return fmt.Errorf("registry URL must include a host: %s", registryURL)
	}

	if parsed.Fragment != "" {
		return fmt.Errorf("registry URL must not contain a fragment: %s", registryURL)
	}

	return nil
}

// ValidateAuthHeaderValue validates that a token is safe to send as an HTTP
// header value. It checks for CRLF injection and control characters.
func ValidateAuthHeaderValue(value string) error {
	if value == "" {
		return fmt.Errorf("auth header value cannot be empty")
	}

	// Length limit to prevent DoS (common HTTP server limit)
	if len(value) > 8192 {
		return fmt.Errorf("auth header value exceeds maximum length of 8192 bytes")
	}

	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("invalid auth header value: contains control characters")
	}

	return nil
}
