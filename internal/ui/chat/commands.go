// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/parley-chat/parley/internal/model"
	"github.com/parley-chat/parley/internal/rooms"
)

// typingIdle is how long after the last keystroke the stop-typing
// signal goes out.
const typingIdle = time.Second

// =============================================================================
// FETCH COMMANDS
// =============================================================================

// fetchRoomsCmd refreshes the joined-room list.
func fetchRoomsCmd(store *rooms.Store) tea.Cmd {
	return func() tea.Msg {
		return RoomsLoadedMsg{Err: store.FetchRooms(context.Background())}
	}
}

// fetchUsersCmd refreshes the user directory.
func fetchUsersCmd(store *rooms.Store) tea.Cmd {
	return func() tea.Msg {
		return UsersLoadedMsg{Err: store.FetchUsers(context.Background())}
	}
}

// fetchAllRoomsCmd loads the public room directory for browsing.
func fetchAllRoomsCmd(store *rooms.Store) tea.Cmd {
	return func() tea.Msg {
		roomList, err := store.FetchAllRooms(context.Background())
		return AllRoomsLoadedMsg{Rooms: roomList, Err: err}
	}
}

// fetchThreadCmd reloads the active room's thread.
func fetchThreadCmd(store *rooms.Store, roomID string) tea.Cmd {
	return func() tea.Msg {
		return ThreadLoadedMsg{
			RoomID: roomID,
			Err:    store.FetchMessages(context.Background(), roomID),
		}
	}
}

// =============================================================================
// ROOM COMMANDS
// =============================================================================

// selectRoomCmd runs the room switch protocol off the update loop.
func selectRoomCmd(store *rooms.Store, room model.Room) tea.Cmd {
	return func() tea.Msg {
		return RoomSelectedMsg{
			Room: room,
			Err:  store.SelectRoom(context.Background(), room),
		}
	}
}

// createRoomCmd creates a room and makes it active.
func createRoomCmd(store *rooms.Store, name string) tea.Cmd {
	return func() tea.Msg {
		room, err := store.CreateRoom(context.Background(), name, "")
		return RoomCreatedMsg{Room: room, Err: err}
	}
}

// openDirectCmd opens the one-on-one room with a user.
func openDirectCmd(store *rooms.Store, user model.User) tea.Cmd {
	return func() tea.Msg {
		room, err := store.OpenDirectRoom(context.Background(), user)
		return DirectRoomMsg{Room: room, With: user, Err: err}
	}
}

// =============================================================================
// TYPING COMMANDS
// =============================================================================

// typingStopCmd schedules the stop-typing expiry for one keystroke
// burst. The sequence number lets the model discard expiries that a
// newer keystroke has superseded.
func typingStopCmd(seq int) tea.Cmd {
	return tea.Tick(typingIdle, func(time.Time) tea.Msg {
		return TypingExpiredMsg{Seq: seq}
	})
}
