// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the chat backend's REST API.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/parley-chat/parley/internal/model"
)

// DefaultMessagePageSize is the history page size requested when the
// caller does not specify one.
const DefaultMessagePageSize = 50

// =============================================================================
// ROOM ENDPOINTS
// =============================================================================

// ListRooms returns every room visible to the user (the browse view).
func (c *Client) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := c.request(ctx, http.MethodGet, "/rooms", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListMyRooms returns the rooms the user is a member of, with unread
// counts.
func (c *Client) ListMyRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := c.request(ctx, http.MethodGet, "/rooms/my", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoom fetches a single room by id.
func (c *Client) GetRoom(ctx context.Context, roomID string) (*model.Room, error) {
	var room model.Room
	if err := c.request(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID), nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateRoomRequest is the body for room creation.
type CreateRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateRoom creates a public room and returns it.
func (c *Client) CreateRoom(ctx context.Context, name, description string) (*model.Room, error) {
	var room model.Room
	req := CreateRoomRequest{Name: name, Description: description}
	if err := c.request(ctx, http.MethodPost, "/rooms", req, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// JoinRoom records membership server-side. This must succeed before the
// socket-level join is signalled; the caller owns that ordering.
func (c *Client) JoinRoom(ctx context.Context, roomID string) error {
	return c.request(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/join", nil, nil)
}

// LeaveRoom removes the user's membership.
func (c *Client) LeaveRoom(ctx context.Context, roomID string) error {
	return c.request(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/leave", nil, nil)
}

// MarkRoomRead resets the room's unread counter for this user.
func (c *Client) MarkRoomRead(ctx context.Context, roomID string) error {
	return c.request(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/mark-read", nil, nil)
}

// CreateDirectRoom creates (or returns the existing) direct room with
// the given peer. Direct rooms are not listed until selected.
func (c *Client) CreateDirectRoom(ctx context.Context, userID, username string) (*model.Room, error) {
	var room model.Room
	body := map[string]string{"username": username}
	if err := c.request(ctx, http.MethodPost, "/rooms/direct/"+url.PathEscape(userID), body, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// =============================================================================
// MESSAGE ENDPOINTS
// =============================================================================

// messagePage is the payload shape of the history endpoint.
type messagePage struct {
	Messages []model.Message `json:"messages"`
}

// ListMessages fetches one page of a room's history. The backend
// returns messages newest-first; callers invert before display.
func (c *Client) ListMessages(ctx context.Context, roomID string, page, limit int) ([]model.Message, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultMessagePageSize
	}

	path := "/rooms/" + url.PathEscape(roomID) + "/messages?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)

	var pg messagePage
	if err := c.request(ctx, http.MethodGet, path, nil, &pg); err != nil {
		return nil, err
	}
	return pg.Messages, nil
}

// SendMessage posts a message over REST and returns the stored record.
// The live path sends over the socket instead; this exists for
// request/response callers and retries.
func (c *Client) SendMessage(ctx context.Context, roomID, content string) (*model.Message, error) {
	var msg model.Message
	body := map[string]string{"content": content}
	if err := c.request(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/messages", body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// =============================================================================
// USER ENDPOINTS
// =============================================================================

// ListUsers returns the other known users (the DM sidebar list).
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.request(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
