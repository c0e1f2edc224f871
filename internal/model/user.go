// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the API
// client, the socket layer, and the UI.
package model

import (
	"strings"
	"time"
)

// =============================================================================
// USER TYPE
// =============================================================================

// User is an account on the chat backend. The ID is issued by the
// server and never changes once assigned.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName returns the username without a leading "@".
func (u User) DisplayName() string {
	return strings.TrimPrefix(u.Username, "@")
}

// Initial returns the first letter of the username, uppercased, for
// avatar-style rendering in the sidebar. Empty usernames yield "?".
func (u User) Initial() string {
	name := u.DisplayName()
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// =============================================================================
// AUTH TYPES
// =============================================================================

// AuthResponse is the payload returned by the login and register
// endpoints: the authenticated identity plus a bearer token.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// LoginCredentials is the request body for POST /auth/login.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterCredentials is the request body for POST /auth/register.
type RegisterCredentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
