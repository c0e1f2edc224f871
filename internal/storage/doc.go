// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides credential persistence for the parley TUI.
//
// A logged-in session is represented by a bearer token plus the profile
// of the user it belongs to, stored together so the client can restore
// a session across restarts without re-prompting for a password.
//
// # Key Types
//
//   - CredentialStore: the persistence port the session layer depends on
//   - FileCredentialStore: JSON-file implementation under ~/.parley/
//   - Credentials: the persisted token + user pair
//
// # Storage Location
//
// Credentials are stored in ~/.parley/credentials.json with 0600
// permissions. Writes are atomic so a crash never leaves a torn file.
package storage
