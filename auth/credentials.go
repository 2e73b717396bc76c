// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// RegistryCredential is a stored login for one registry.
//
// A credential with a non-empty Organizations list is a unified credential:
// it is valid for every listed organization's derived registry URL, not just
// RegistryURL itself.
type RegistryCredential struct {
	RegistryURL   string   `koanf:"registryUrl" json:"registryUrl"`
	Username      string   `koanf:"username" json:"username"`
	RefreshToken  string   `koanf:"refreshToken" json:"refreshToken,omitempty"`
	Password      string   `koanf:"password" json:"password,omitempty"`
	Organizations []string `koanf:"organizations" json:"organizations,omitempty"`
}

// IsUnified reports whether the credential is scoped to a list of
// organizations rather than a single registry URL.
func (c RegistryCredential) IsUnified() bool {
	return len(c.Organizations) > 0
}

// HasOrganization reports whether the credential grants access to the given
// organization.
func (c RegistryCredential) HasOrganization(org string) bool {
	for _, o := range c.Organizations {
		if o == org {
			return true
		}
	}
	return false
}

// credentialsFile mirrors the on-disk credentials file layout.
type credentialsFile struct {
	Credentials []RegistryCredential `koanf:"credentials"`
}

// CredentialsPath returns the credentials file path within the given config
// home. This is the injectable, testable form. For the standard XDG location,
// use DefaultCredentialsPath.
func CredentialsPath(configHome string) string {
	return filepath.Join(configHome, "nori", "credentials.json")
}

// DefaultCredentialsPath returns the default credentials file path using XDG
// base directory conventions.
func DefaultCredentialsPath() string {
	return CredentialsPath(xdg.ConfigHome)
}

// LoadCredentials reads the credentials file at path.
//
// A missing file is not an error: the user simply has not logged in, and an
// empty list is returned. A present but malformed file is a fatal error.
func LoadCredentials(path string) ([]RegistryCredential, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("loading credentials file %s: %w", path, err)
	}

	var cf credentialsFile
	if err := k.Unmarshal("", &cf); err != nil {
		return nil, fmt.Errorf("parsing credentials file %s: %w", path, err)
	}

	return cf.Credentials, nil
}
