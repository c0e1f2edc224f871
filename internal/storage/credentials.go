// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides credential persistence for the parley TUI.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parley-chat/parley/internal/model"
	"github.com/parley-chat/parley/internal/util"
)

// ErrNoCredentials is returned by Load when no credentials are stored.
var ErrNoCredentials = errors.New("no stored credentials")

// =============================================================================
// CREDENTIALS
// =============================================================================

// Credentials is the persisted session: the bearer token and the user
// it was issued to.
type Credentials struct {
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	SavedAt time.Time  `json:"saved_at"`
}

// Valid reports whether the credentials carry a usable token.
func (c Credentials) Valid() bool {
	return c.Token != ""
}

// =============================================================================
// CREDENTIAL STORE
// =============================================================================

// CredentialStore is the persistence port for session credentials. The
// session layer depends on this interface so tests can substitute an
// in-memory implementation.
type CredentialStore interface {
	// Load returns the stored credentials, or ErrNoCredentials when
	// nothing is stored.
	Load() (Credentials, error)

	// Save persists the credentials, replacing any previous ones.
	Save(creds Credentials) error

	// Clear removes the stored credentials. Clearing an empty store
	// is not an error.
	Clear() error
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileCredentialStore persists credentials as a JSON file.
type FileCredentialStore struct {
	// Path is the credential file location.
	// Default: ~/.parley/credentials.json
	Path string
}

// NewFileCredentialStore creates a store rooted in the user's home
// directory.
func NewFileCredentialStore() (*FileCredentialStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}
	return &FileCredentialStore{
		Path: filepath.Join(homeDir, ".parley", "credentials.json"),
	}, nil
}

// NewFileCredentialStoreWithPath creates a store with a custom file
// location.
func NewFileCredentialStoreWithPath(path string) *FileCredentialStore {
	return &FileCredentialStore{Path: path}
}

// Load reads the credential file.
func (s *FileCredentialStore) Load() (Credentials, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, ErrNoCredentials
		}
		return Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse credentials: %w", err)
	}
	if !creds.Valid() {
		return Credentials{}, ErrNoCredentials
	}
	return creds, nil
}

// Save writes the credential file atomically. The file is created with
// 0600 permissions since it holds a live bearer token.
func (s *FileCredentialStore) Save(creds Credentials) error {
	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(s.Path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// Clear removes the credential file.
func (s *FileCredentialStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryCredentialStore is an in-memory CredentialStore for tests and
// for running with persistence disabled.
type MemoryCredentialStore struct {
	creds Credentials
	held  bool
}

// NewMemoryCredentialStore creates an empty in-memory store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

// Load returns the held credentials.
func (s *MemoryCredentialStore) Load() (Credentials, error) {
	if !s.held {
		return Credentials{}, ErrNoCredentials
	}
	return s.creds, nil
}

// Save replaces the held credentials.
func (s *MemoryCredentialStore) Save(creds Credentials) error {
	s.creds = creds
	s.held = true
	return nil
}

// Clear drops the held credentials.
func (s *MemoryCredentialStore) Clear() error {
	s.creds = Credentials{}
	s.held = false
	return nil
}
