// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authenticated-user state of the client.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/parley-chat/parley/internal/api"
	"github.com/parley-chat/parley/internal/model"
	"github.com/parley-chat/parley/internal/push"
	"github.com/parley-chat/parley/internal/storage"
)

// ErrNoSession is returned by Restore when no usable session exists.
var ErrNoSession = errors.New("no session to restore")

// =============================================================================
// SESSION STORE
// =============================================================================

// Store holds the authenticated-user state. All transitions go through
// it so the REST client token, the push connection and the persisted
// credentials never drift apart.
//
// Safe for concurrent use.
type Store struct {
	client *api.Client
	socket *push.Socket
	creds  storage.CredentialStore

	mu      sync.RWMutex
	user    model.User
	authed  bool
	loading bool
	lastErr error
}

// NewStore creates a session store over its three collaborators.
func NewStore(client *api.Client, socket *push.Socket, creds storage.CredentialStore) *Store {
	return &Store{
		client: client,
		socket: socket,
		creds:  creds,
	}
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

// IsAuthenticated reports whether a user is logged in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed
}

// CurrentUser returns the logged-in user. The zero User when logged out.
func (s *Store) CurrentUser() model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether an auth operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the most recent auth failure, or nil.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearError discards the recorded auth failure.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Login authenticates with email and password. On success the token is
// installed on the REST client, persisted, and the push channel is
// connected. On failure no state changes except the recorded error.
func (s *Store) Login(ctx context.Context, creds model.LoginCredentials) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.client.Login(ctx, creds)
	if err != nil {
		s.recordError(err)
		return err
	}
	return s.establish(ctx, *resp)
}

// Register creates an account and logs it in. Same state contract as
// Login.
func (s *Store) Register(ctx context.Context, creds model.RegisterCredentials) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.client.Register(ctx, creds)
	if err != nil {
		s.recordError(err)
		return err
	}
	return s.establish(ctx, *resp)
}

// establish commits a successful auth response: token on the client,
// credentials on disk, push channel up.
func (s *Store) establish(ctx context.Context, resp model.AuthResponse) error {
	s.client.SetToken(resp.Token)

	if err := s.creds.Save(storage.Credentials{Token: resp.Token, User: resp.User}); err != nil {
		// The session is live either way; persistence failure only
		// costs the restore on next start.
		s.recordError(err)
	}

	s.mu.Lock()
	s.user = resp.User
	s.authed = true
	s.lastErr = nil
	s.mu.Unlock()

	if err := s.socket.Connect(ctx, resp.Token); err != nil {
		// REST still works without the live channel; surface the
		// error but stay logged in.
		s.recordError(err)
		return err
	}
	return nil
}

// Restore re-establishes a session from persisted credentials. The
// stored token is validated against the backend before being trusted;
// a rejected token clears the stored credentials.
func (s *Store) Restore(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	stored, err := s.creds.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoCredentials) {
			return ErrNoSession
		}
		return err
	}

	s.client.SetToken(stored.Token)

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			// Stale token. Drop it everywhere.
			s.client.ClearToken()
			_ = s.creds.Clear()
			return ErrNoSession
		}
		// Backend unreachable; don't destroy a possibly-good session.
		s.client.ClearToken()
		s.recordError(err)
		return err
	}

	s.mu.Lock()
	s.user = *user
	s.authed = true
	s.lastErr = nil
	s.mu.Unlock()

	if err := s.socket.Connect(ctx, stored.Token); err != nil {
		s.recordError(err)
		return err
	}
	return nil
}

// Logout tears the session down unconditionally: push channel closed,
// token cleared, credentials removed. Errors along the way don't stop
// the teardown.
func (s *Store) Logout() {
	s.socket.Disconnect()
	s.client.ClearToken()
	_ = s.creds.Clear()

	s.mu.Lock()
	s.user = model.User{}
	s.authed = false
	s.lastErr = nil
	s.mu.Unlock()
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) recordError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
