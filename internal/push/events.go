// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package push maintains the persistent websocket connection over which
// the backend delivers live events.
package push

// =============================================================================
// EVENT NAMES
// =============================================================================

// Outbound event names (client → server).
const (
	EventJoinRoom    = "join-room"
	EventLeaveRoom   = "leave-room"
	EventSendMessage = "send-message"
	EventTypingStart = "typing-start"
	EventTypingStop  = "typing-stop"
)

// Inbound event names (server → client).
const (
	EventMessageReceived = "message-received"
	EventUserTyping      = "user-typing"
	EventUserJoined      = "user-joined"
	EventUserLeft        = "user-left"
	EventRoomJoined      = "room-joined"
	EventError           = "error"
)

// =============================================================================
// OUTBOUND PAYLOADS
// =============================================================================

// RoomSignal is the payload for join-room, leave-room, typing-start and
// typing-stop.
type RoomSignal struct {
	RoomID string `json:"roomId"`
}

// SendMessageSignal is the payload for send-message.
type SendMessageSignal struct {
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
}
