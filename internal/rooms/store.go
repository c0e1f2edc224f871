// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rooms owns the conversation state of the client.
package rooms

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/parley-chat/parley/internal/api"
	"github.com/parley-chat/parley/internal/model"
	"github.com/parley-chat/parley/internal/push"
)

// =============================================================================
// ROOMS STORE
//
// All reads hand back copies so callers never alias internal slices.
// =============================================================================

// Store holds the room list, the active room and its thread.
type Store struct {
	client *api.Client
	socket *push.Socket

	mu       sync.RWMutex
	self     model.User
	pageSize int // history page length; 0 means the client default
	rooms    []model.Room
	users    []model.User
	current  *model.Room
	messages []model.Message
	typing   map[string]model.TypingEvent // keyed by user id
	lastErr  error
}

// NewStore creates an empty store over the REST client and push socket.
func NewStore(client *api.Client, socket *push.Socket) *Store {
	return &Store{
		client: client,
		socket: socket,
		typing: make(map[string]model.TypingEvent),
	}
}

// SetSelf records the logged-in user so the store can ignore its own
// typing echoes. Call after login or restore.
func (s *Store) SetSelf(user model.User) {
	s.mu.Lock()
	s.self = user
	s.mu.Unlock()
}

// SetPageSize sets how many messages FetchMessages requests per page.
// Zero keeps the client default.
func (s *Store) SetPageSize(n int) {
	s.mu.Lock()
	s.pageSize = n
	s.mu.Unlock()
}

// Reset drops all conversation state. Call on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.self = model.User{}
	s.rooms = nil
	s.users = nil
	s.current = nil
	s.messages = nil
	s.typing = make(map[string]model.TypingEvent)
	s.lastErr = nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Rooms returns the joined-room list.
func (s *Store) Rooms() []model.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Room(nil), s.rooms...)
}

// Users returns the known user directory.
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.User(nil), s.users...)
}

// CurrentRoom returns the active room, or nil when none is selected.
func (s *Store) CurrentRoom() *model.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	room := *s.current
	return &room
}

// Messages returns the active thread, oldest first.
func (s *Store) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Message(nil), s.messages...)
}

// TypingUsers returns the usernames currently typing in the active
// room, excluding the logged-in user. Sorted so the indicator line is
// stable between renders.
func (s *Store) TypingUsers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.typing))
	for _, ev := range s.typing {
		names = append(names, ev.Username)
	}
	sort.Strings(names)
	return names
}

// LastError returns the most recent fetch failure, or nil.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearError discards the recorded failure.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

// =============================================================================
// FETCHES
// =============================================================================

// FetchRooms refreshes the joined-room list. On failure the previous
// list is kept and the error recorded.
func (s *Store) FetchRooms(ctx context.Context) error {
	fetched, err := s.client.ListMyRooms(ctx)
	if err != nil {
		s.recordError(err)
		return err
	}

	s.mu.Lock()
	s.rooms = fetched
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// FetchAllRooms returns every public room for the browse view. The
// result is not stored; the sidebar shows joined rooms only.
func (s *Store) FetchAllRooms(ctx context.Context) ([]model.Room, error) {
	roomList, err := s.client.ListRooms(ctx)
	if err != nil {
		s.recordError(err)
		return nil, err
	}
	return roomList, nil
}

// FetchUsers refreshes the user directory.
func (s *Store) FetchUsers(ctx context.Context) error {
	fetched, err := s.client.ListUsers(ctx)
	if err != nil {
		s.recordError(err)
		return err
	}

	s.mu.Lock()
	s.users = fetched
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// FetchMessages loads the latest page of the room's thread. The backend
// returns newest first; the stored thread is oldest first. The result
// is discarded if the user has switched rooms since the fetch started.
func (s *Store) FetchMessages(ctx context.Context, roomID string) error {
	s.mu.RLock()
	limit := s.pageSize
	s.mu.RUnlock()

	msgs, err := s.client.ListMessages(ctx, roomID, 1, limit)
	if err != nil {
		s.recordError(err)
		return err
	}
	model.SortOldestFirst(msgs)

	s.mu.Lock()
	if s.current != nil && s.current.ID == roomID {
		s.messages = msgs
	}
	s.mu.Unlock()
	return nil
}

// =============================================================================
// ROOM SELECTION
// =============================================================================

// SelectRoom makes a room active. The sequence mirrors what the
// backend expects: drop the old room's live subscription, join over
// REST (membership), then join over the push channel (delivery), then
// load the thread and mark it read.
//
// A REST join failure aborts the switch entirely: the old room stays
// active and no push signals for the new room are sent.
func (s *Store) SelectRoom(ctx context.Context, room model.Room) error {
	s.mu.RLock()
	previous := s.current
	s.mu.RUnlock()

	if previous != nil && previous.ID == room.ID {
		return nil
	}

	if previous != nil {
		s.socket.LeaveRoom(previous.ID)
	}

	if err := s.client.JoinRoom(ctx, room.ID); err != nil {
		s.recordError(err)
		return fmt.Errorf("failed to join room %s: %w", room.Name, err)
	}
	s.socket.JoinRoom(room.ID)

	s.mu.Lock()
	s.current = &room
	s.messages = nil
	s.typing = make(map[string]model.TypingEvent)
	s.lastErr = nil
	s.mu.Unlock()

	if err := s.FetchMessages(ctx, room.ID); err != nil {
		return err
	}

	// Mark-read and the room refresh are best-effort; the switch has
	// already happened.
	if err := s.client.MarkRoomRead(ctx, room.ID); err == nil {
		_ = s.FetchRooms(ctx)
	}
	return nil
}

// ClearCurrentRoom deselects the active room. The thread and typing
// set go with it; messages are never cached per room.
func (s *Store) ClearCurrentRoom() {
	s.mu.RLock()
	previous := s.current
	s.mu.RUnlock()
	if previous != nil {
		s.socket.LeaveRoom(previous.ID)
	}

	s.mu.Lock()
	s.current = nil
	s.messages = nil
	s.typing = make(map[string]model.TypingEvent)
	s.mu.Unlock()
}

// CreateRoom creates a public room, refreshes the list and makes the
// new room active.
func (s *Store) CreateRoom(ctx context.Context, name, description string) (model.Room, error) {
	created, err := s.client.CreateRoom(ctx, name, description)
	if err != nil {
		s.recordError(err)
		return model.Room{}, err
	}
	room := *created

	_ = s.FetchRooms(ctx)
	if err := s.SelectRoom(ctx, room); err != nil {
		return room, err
	}
	return room, nil
}

// OpenDirectRoom opens (or creates) the one-on-one room with a user and
// makes it active. Direct rooms are not inserted into the sidebar list.
func (s *Store) OpenDirectRoom(ctx context.Context, user model.User) (model.Room, error) {
	created, err := s.client.CreateDirectRoom(ctx, user.ID, user.Username)
	if err != nil {
		s.recordError(err)
		return model.Room{}, err
	}
	room := *created

	if err := s.SelectRoom(ctx, room); err != nil {
		return room, err
	}
	return room, nil
}

// =============================================================================
// LIVE EVENTS
// =============================================================================

// SendMessage sends over the push channel. Fire-and-forget: the message
// shows up in the thread when the server pushes it back.
func (s *Store) SendMessage(content string) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current == nil || content == "" {
		return
	}
	s.socket.SendMessage(current.ID, content)
}

// StartTyping signals composition in the active room.
func (s *Store) StartTyping() {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current == nil {
		return
	}
	s.socket.StartTyping(current.ID)
}

// StopTyping signals composition stopped in the active room.
func (s *Store) StopTyping() {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current == nil {
		return
	}
	s.socket.StopTyping(current.ID)
}

// AddIncomingMessage handles a pushed message. Appended only when it
// belongs to the active room; otherwise the owning room's unread count
// is bumped so the sidebar badge updates.
func (s *Store) AddIncomingMessage(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && msg.RoomID == s.current.ID {
		s.messages = append(s.messages, msg)
		// The author obviously stopped typing.
		delete(s.typing, msg.UserID)
		return
	}

	for i := range s.rooms {
		if s.rooms[i].ID == msg.RoomID {
			s.rooms[i].UnreadCount++
			return
		}
	}
}

// SetTyping handles a pushed typing event. Events from the logged-in
// user or for a non-active room are dropped. Removing an absent user is
// a no-op.
func (s *Store) SetTyping(ev model.TypingEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.UserID == s.self.ID {
		return
	}
	if s.current == nil || ev.RoomID != s.current.ID {
		return
	}

	if ev.IsTyping {
		s.typing[ev.UserID] = ev
	} else {
		delete(s.typing, ev.UserID)
	}
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Store) recordError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
