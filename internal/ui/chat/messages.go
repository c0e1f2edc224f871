// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat screen for the parley TUI.
//
// This file defines all Bubble Tea message types used by the chat
// screen. Messages are organized into the following categories:
//   - Fetch results: room list, user directory, thread loads
//   - Room actions: selection, creation, direct rooms
//   - Push events: incoming messages, typing, presence, channel errors
//   - Typing: the local stop-typing debounce
//   - Session: logout
package chat

import (
	"github.com/parley-chat/parley/internal/model"
)

// =============================================================================
// FETCH RESULT MESSAGES
// =============================================================================

// RoomsLoadedMsg reports a joined-room list refresh.
type RoomsLoadedMsg struct {
	Err error
}

// UsersLoadedMsg reports a user directory refresh.
type UsersLoadedMsg struct {
	Err error
}

// AllRoomsLoadedMsg carries the public room directory for the browse
// view. Unlike the joined list, the result is not kept in the store.
type AllRoomsLoadedMsg struct {
	Rooms []model.Room
	Err   error
}

// ThreadLoadedMsg reports a message thread load for a room.
type ThreadLoadedMsg struct {
	RoomID string
	Err    error
}

// =============================================================================
// ROOM ACTION MESSAGES
// =============================================================================

// RoomSelectedMsg reports the outcome of a room switch.
type RoomSelectedMsg struct {
	Room model.Room
	Err  error
}

// RoomCreatedMsg reports the outcome of creating a room.
type RoomCreatedMsg struct {
	Room model.Room
	Err  error
}

// DirectRoomMsg reports the outcome of opening a one-on-one room.
type DirectRoomMsg struct {
	Room model.Room
	With model.User
	Err  error
}

// =============================================================================
// PUSH EVENT MESSAGES
//
// The socket handlers run on the read goroutine; the program bridge
// decodes payloads and forwards these onto the update loop.
// =============================================================================

// IncomingMessageMsg carries a pushed chat message.
type IncomingMessageMsg struct {
	Message model.Message
}

// TypingEventMsg carries a pushed typing start/stop.
type TypingEventMsg struct {
	Event model.TypingEvent
}

// PresenceMsg carries a pushed user join/leave.
type PresenceMsg struct {
	Event  model.PresenceEvent
	Joined bool
}

// RoomJoinedMsg confirms the server subscribed this connection to a room.
type RoomJoinedMsg struct {
	RoomID string
}

// PushErrorMsg carries a server-sent or synthetic channel error.
type PushErrorMsg struct {
	Message string
}

// ConnectionMsg reports a push channel state change.
type ConnectionMsg struct {
	Connected bool
}

// =============================================================================
// TYPING DEBOUNCE MESSAGES
// =============================================================================

// TypingExpiredMsg fires one second after the latest keystroke. Only
// the newest scheduled expiry counts; stale sequence numbers are
// dropped, giving last-writer-wins semantics.
type TypingExpiredMsg struct {
	Seq int
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// LogoutMsg asks the application to tear the session down and return
// to the sign-in screen.
type LogoutMsg struct{}
