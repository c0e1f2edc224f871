// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the chat backend's REST API.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/internal/model"
)

// newTestClient points a client at a stub backend.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithConfig(&ClientConfig{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second})
}

// writeEnvelope writes the backend's uniform response wrapper.
func writeEnvelope(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": status < 400,
		"data":    data,
		"message": message,
	})
}

// =============================================================================
// CONFIGURATION TESTS
// =============================================================================

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(nil)
	if c.config.BaseURL == "" {
		t.Error("nil config should fall back to default BaseURL")
	}
	if c.config.Timeout == 0 {
		t.Error("nil config should fall back to default timeout")
	}

	c = NewClientWithConfig(&ClientConfig{BaseURL: "http://example.test/api/"})
	if c.config.BaseURL != "http://example.test/api" {
		t.Errorf("trailing slash not trimmed: %q", c.config.BaseURL)
	}
}

func TestClient_TokenLifecycle(t *testing.T) {
	c := NewClient()
	if c.Token() != "" {
		t.Error("fresh client should hold no token")
	}

	c.SetToken("tok-123")
	if c.Token() != "tok-123" {
		t.Error("SetToken did not stick")
	}

	c.ClearToken()
	if c.Token() != "" {
		t.Error("ClearToken did not clear")
	}
}

// =============================================================================
// REQUEST TESTS
// =============================================================================

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var creds model.LoginCredentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "alice@example.com", creds.Email)

		writeEnvelope(w, http.StatusOK, model.AuthResponse{
			User:  model.User{ID: "u1", Username: "alice"},
			Token: "tok-abc",
		}, "")
	})

	resp, err := c.Login(context.Background(), model.LoginCredentials{
		Email:    "alice@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "tok-abc", resp.Token)

	// Login must not install the token; that is the session store's call.
	assert.Empty(t, c.Token())
}

func TestClient_BearerHeaderAttached(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, []model.Room{}, "")
	})

	c.SetToken("tok-xyz")
	_, err := c.ListMyRooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-xyz", gotAuth)
}

func TestClient_NoBearerHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, []model.Room{}, "")
	})

	_, err := c.ListRooms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ServerMessageCarriedThrough(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "Invalid credentials")
	})

	_, err := c.Login(context.Background(), model.LoginCredentials{Email: "x", Password: "y"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestClient_ErrorTypeForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{http.StatusUnauthorized, ErrTypeUnauthorized},
		{http.StatusForbidden, ErrTypeUnauthorized},
		{http.StatusNotFound, ErrTypeNotFound},
		{http.StatusInternalServerError, ErrTypeServer},
		{http.StatusBadGateway, ErrTypeServer},
		{http.StatusBadRequest, ErrTypeInvalidResponse},
	}

	for _, tc := range tests {
		if got := errorTypeForStatus(tc.status); got != tc.want {
			t.Errorf("errorTypeForStatus(%d) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestClient_Unreachable(t *testing.T) {
	// Port 1 on localhost should refuse connections immediately.
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://127.0.0.1:1/api", Timeout: time.Second})
	_, err := c.ListRooms(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnreachable(err))
}

func TestClient_ListMessages_PagingDefaults(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, map[string]any{"messages": []model.Message{
			{ID: "m2", Content: "newer"},
			{ID: "m1", Content: "older"},
		}}, "")
	})

	msgs, err := c.ListMessages(context.Background(), "r1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "page=1&limit=50", gotQuery)

	// The client hands back the backend's newest-first order untouched;
	// inversion happens in the rooms store.
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].ID)
}

func TestClient_CreateDirectRoom(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/rooms/direct/u42", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "bob", body["username"])

		writeEnvelope(w, http.StatusOK, model.Room{ID: "dm1", Type: model.RoomDirect}, "")
	})

	room, err := c.CreateDirectRoom(context.Background(), "u42", "bob")
	require.NoError(t, err)
	assert.True(t, room.IsDirect())
}

func TestClient_JoinRoom_NoPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/rooms/r9/join", r.URL.Path)
		writeEnvelope(w, http.StatusOK, nil, "")
	})

	require.NoError(t, c.JoinRoom(context.Background(), "r9"))
}
