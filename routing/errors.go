// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package routing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAuthenticationRequired reports a public publish attempt with no usable
// credential.
var ErrAuthenticationRequired = errors.New("authentication required: log in before publishing to the public registry")

// NoCredentialForRegistryError reports an explicit registry URL that matches
// none of the caller's credentials.
type NoCredentialForRegistryError struct {
	RegistryURL string
}

// Error implements the error interface.
func (e *NoCredentialForRegistryError) Error() string {
	return fmt.Sprintf("no credential found for registry %s: log in to that registry first", e.RegistryURL)
}

// OrganizationAccessDeniedError reports a reference scope the caller's
// credentials do not cover.
type OrganizationAccessDeniedError struct {
	Scope     string
	Available []string
}

// Error implements the error interface.
func (e *OrganizationAccessDeniedError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("access to organization %q denied: you are not a member of any organization", e.Scope)
	}
	return fmt.Sprintf("access to organization %q denied: your organizations are %s",
		e.Scope, strings.Join(e.Available, ", "))
}

// AmbiguousRegistryError reports a legacy multi-registry configuration where
// more than one credential is plausible and no explicit registry was given.
type AmbiguousRegistryError struct {
	Candidates []string
}

// Error implements the error interface.
func (e *AmbiguousRegistryError) Error() string {
	return fmt.Sprintf("multiple registries configured (%s): disambiguate with an explicit registry URL",
		strings.Join(e.Candidates, ", "))
}
