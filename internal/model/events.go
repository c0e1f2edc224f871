// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the API
// client, the socket layer, and the UI.
package model

import "time"

// =============================================================================
// PUSH EVENT PAYLOADS
// =============================================================================

// TypingEvent is the payload of a "user-typing" push event. IsTyping
// true means the user started composing; false means they stopped.
type TypingEvent struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
	IsTyping bool   `json:"isTyping"`
}

// PresenceEvent is the payload of "user-joined" and "user-left" push
// events.
type PresenceEvent struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	RoomID    string    `json:"roomId"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomJoinedEvent is the payload of a "room-joined" push event,
// confirming the server is now forwarding the room's live events to
// this connection.
type RoomJoinedEvent struct {
	RoomID string `json:"roomId"`
}

// ErrorEvent is the payload of an "error" push event.
type ErrorEvent struct {
	Message string `json:"message"`
}
