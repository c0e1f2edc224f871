// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rooms owns the conversation state of the client: the room
// list, the active room, its message thread and who is typing in it.
//
// The store combines REST calls (fetching rooms, messages, users,
// joining) with fire-and-forget push signals (room subscription,
// sending, typing). Messages are held oldest-first regardless of the
// order the backend returns them. Incoming pushed messages are only
// appended when they belong to the active room; messages for other
// rooms just bump that room's unread count.
//
// Mutating methods are safe to call from tea.Cmd goroutines and from
// push subscription handlers concurrently.
package rooms
