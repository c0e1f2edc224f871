// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the API
// client, the socket layer, and the UI.
package model

import (
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// ROOM KIND
// =============================================================================

// RoomKind distinguishes public group rooms from direct (1:1) rooms.
type RoomKind string

const (
	RoomPublic RoomKind = "public"
	RoomDirect RoomKind = "direct"
)

// =============================================================================
// ROOM TYPE
// =============================================================================

// Room is a conversation channel. IDs are unique among the rooms the
// user can see. Unread counts are maintained server-side and refreshed
// by re-fetching the room list after a mark-read call.
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        RoomKind  `json:"type,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	MemberCount int       `json:"memberCount,omitempty"`
	UnreadCount int       `json:"unreadCount,omitempty"`
}

// IsDirect reports whether the room is a direct (1:1) conversation.
func (r Room) IsDirect() bool {
	return r.Type == RoomDirect
}

// Initial returns the first letter of the room name, uppercased, for
// avatar-style rendering in the sidebar.
func (r Room) Initial() string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// UnreadBadge formats the unread count for display. Counts above 99
// collapse to "99+"; zero yields an empty string.
func (r Room) UnreadBadge() string {
	switch {
	case r.UnreadCount <= 0:
		return ""
	case r.UnreadCount > 99:
		return "99+"
	default:
		return strconv.Itoa(r.UnreadCount)
	}
}
