// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authenticated-user state of the client.
//
// A Store ties together the REST client, the push socket and the
// credential store: logging in installs the bearer token on the REST
// client, persists it, and connects the push channel; logging out
// unconditionally reverses all three. The invariant throughout is that
// a token is held if and only if the store reports authenticated.
//
// Restore re-establishes a session from persisted credentials at
// startup, validating the stored token against the backend before
// trusting it.
package session
