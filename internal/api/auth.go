// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the chat backend's REST API.
package api

import (
	"context"
	"net/http"

	"github.com/parley-chat/parley/internal/model"
)

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Register creates a new account and returns the identity plus a fresh
// bearer token. The token is NOT installed on the client; that decision
// belongs to the session store.
func (c *Client) Register(ctx context.Context, creds model.RegisterCredentials) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.request(ctx, http.MethodPost, "/auth/register", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates existing credentials and returns the identity
// plus a fresh bearer token.
func (c *Client) Login(ctx context.Context, creds model.LoginCredentials) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.request(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CurrentUser returns the identity behind the held bearer token. Used
// at startup to validate a persisted token.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.request(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
