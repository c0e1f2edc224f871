// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rooms owns the conversation state of the client.
package rooms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/internal/api"
	"github.com/parley-chat/parley/internal/model"
	"github.com/parley-chat/parley/internal/push"
)

// chatBackend stubs the REST surface the store touches. The push
// socket stays disconnected in these tests; its signals are
// fire-and-forget no-ops, which is exactly the live contract.
type chatBackend struct {
	srv *httptest.Server

	mu         sync.Mutex
	myRooms    []model.Room
	allRooms   []model.Room
	users      []model.User
	messages   map[string][]model.Message // newest first, as the backend serves them
	joinStatus int
	marksRead  []string
	joins      []string
	limits     []string // "limit" query params seen by the history endpoint
	failRooms  bool
}

func newChatBackend(t *testing.T) *chatBackend {
	t.Helper()
	b := &chatBackend{
		joinStatus: http.StatusOK,
		messages:   make(map[string][]model.Message),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rooms/my", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failRooms {
			writeEnvelope(w, http.StatusInternalServerError, nil, "boom")
			return
		}
		writeEnvelope(w, http.StatusOK, b.myRooms, "")
	})
	mux.HandleFunc("GET /api/rooms", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeEnvelope(w, http.StatusOK, b.allRooms, "")
	})
	mux.HandleFunc("POST /api/rooms", func(w http.ResponseWriter, r *http.Request) {
		var req api.CreateRoomRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		room := model.Room{ID: "created-" + req.Name, Name: req.Name, Type: model.RoomPublic}
		b.mu.Lock()
		b.myRooms = append(b.myRooms, room)
		b.mu.Unlock()
		writeEnvelope(w, http.StatusOK, room, "")
	})
	mux.HandleFunc("POST /api/rooms/{id}/join", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.joinStatus != http.StatusOK {
			writeEnvelope(w, b.joinStatus, nil, "join rejected")
			return
		}
		b.joins = append(b.joins, r.PathValue("id"))
		writeEnvelope(w, http.StatusOK, nil, "")
	})
	mux.HandleFunc("POST /api/rooms/{id}/mark-read", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.marksRead = append(b.marksRead, r.PathValue("id"))
		b.mu.Unlock()
		writeEnvelope(w, http.StatusOK, nil, "")
	})
	mux.HandleFunc("GET /api/rooms/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.limits = append(b.limits, r.URL.Query().Get("limit"))
		writeEnvelope(w, http.StatusOK, map[string]any{"messages": b.messages[r.PathValue("id")]}, "")
	})
	// A "direct/{id}" wildcard would conflict with the "{id}/join"
	// pattern on the same mux, so the stub pins the one peer id the
	// tests dial.
	mux.HandleFunc("POST /api/rooms/direct/u2", func(w http.ResponseWriter, r *http.Request) {
		room := model.Room{ID: "dm-u2", Type: model.RoomDirect}
		writeEnvelope(w, http.StatusOK, room, "")
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeEnvelope(w, http.StatusOK, b.users, "")
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func writeEnvelope(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": status < 400,
		"data":    data,
		"message": message,
	})
}

func newTestStore(t *testing.T, b *chatBackend) *Store {
	t.Helper()
	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: b.srv.URL + "/api",
		Timeout: 5 * time.Second,
	})
	store := NewStore(client, push.NewSocket())
	store.SetSelf(model.User{ID: "me", Username: "self"})
	return store
}

func room(id, name string) model.Room {
	return model.Room{ID: id, Name: name, Type: model.RoomPublic}
}

// =============================================================================
// FETCH TESTS
// =============================================================================

func TestStore_FetchRooms(t *testing.T) {
	b := newChatBackend(t)
	b.myRooms = []model.Room{room("r1", "general"), room("r2", "random")}
	store := newTestStore(t, b)

	require.NoError(t, store.FetchRooms(context.Background()))
	got := store.Rooms()
	require.Len(t, got, 2)
	assert.Equal(t, "general", got[0].Name)
}

func TestStore_FetchRooms_FailureKeepsPreviousList(t *testing.T) {
	b := newChatBackend(t)
	b.myRooms = []model.Room{room("r1", "general")}
	store := newTestStore(t, b)
	require.NoError(t, store.FetchRooms(context.Background()))

	b.mu.Lock()
	b.failRooms = true
	b.mu.Unlock()

	err := store.FetchRooms(context.Background())
	require.Error(t, err)
	assert.Len(t, store.Rooms(), 1, "previous list should survive a failed refresh")
	assert.Error(t, store.LastError())

	store.ClearError()
	assert.Nil(t, store.LastError())
}

func TestStore_FetchUsers(t *testing.T) {
	b := newChatBackend(t)
	b.users = []model.User{{ID: "u1", Username: "alice"}, {ID: "u2", Username: "bob"}}
	store := newTestStore(t, b)

	require.NoError(t, store.FetchUsers(context.Background()))
	assert.Len(t, store.Users(), 2)
}

func TestStore_FetchAllRooms_NotStored(t *testing.T) {
	b := newChatBackend(t)
	b.allRooms = []model.Room{room("r9", "lounge")}
	store := newTestStore(t, b)

	all, err := store.FetchAllRooms(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Empty(t, store.Rooms(), "browse results must not leak into the sidebar list")
}

// =============================================================================
// SELECTION TESTS
// =============================================================================

func TestStore_SelectRoom(t *testing.T) {
	b := newChatBackend(t)
	b.myRooms = []model.Room{room("r1", "general")}
	b.messages["r1"] = []model.Message{
		{ID: "m2", RoomID: "r1", Content: "newer", CreatedAt: time.Now()},
		{ID: "m1", RoomID: "r1", Content: "older", CreatedAt: time.Now().Add(-time.Minute)},
	}
	store := newTestStore(t, b)

	require.NoError(t, store.SelectRoom(context.Background(), room("r1", "general")))

	current := store.CurrentRoom()
	require.NotNil(t, current)
	assert.Equal(t, "r1", current.ID)

	// Thread is oldest first even though the backend serves newest first.
	msgs := store.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, []string{"r1"}, b.joins)
	assert.Equal(t, []string{"r1"}, b.marksRead)
}

func TestStore_FetchMessages_PageSize(t *testing.T) {
	b := newChatBackend(t)
	store := newTestStore(t, b)

	// Default: the client fills in its own page size.
	require.NoError(t, store.SelectRoom(context.Background(), room("r1", "general")))

	store.SetPageSize(25)
	require.NoError(t, store.SelectRoom(context.Background(), room("r2", "random")))

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, []string{"50", "25"}, b.limits)
}

func TestStore_SelectRoom_JoinFailureAbortsSwitch(t *testing.T) {
	b := newChatBackend(t)
	b.messages["r1"] = nil
	store := newTestStore(t, b)
	require.NoError(t, store.SelectRoom(context.Background(), room("r1", "general")))

	b.mu.Lock()
	b.joinStatus = http.StatusForbidden
	b.mu.Unlock()

	err := store.SelectRoom(context.Background(), room("r2", "private"))
	require.Error(t, err)

	current := store.CurrentRoom()
	require.NotNil(t, current)
	assert.Equal(t, "r1", current.ID, "failed switch must keep the old room active")
}

func TestStore_SelectRoom_SameRoomIsNoOp(t *testing.T) {
	b := newChatBackend(t)
	store := newTestStore(t, b)
	require.NoError(t, store.SelectRoom(context.Background(), room("r1", "general")))

	require.NoError(t, store.SelectRoom(context.Background(), room("r1", "general")))

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, []string{"r1"}, b.joins, "re-selecting the active room should not re-join")
}

func TestStore_SelectRoom_ClearsTypingAndThread(t *testing.T) {
	b := newChatBackend(t)
	b.messages["r1"] = []model.Message{{ID: "m1", RoomID: "r1"}}
	store := newTestStore(t, b)
	require.NoError(t, store.SelectRoom(context.Background(), room("r1", "general")))

	store.SetTyping(model.TypingEvent{UserID: "u2", Username: "bob", RoomID: "r1", IsTyping: true})
	require.Len(t, store.TypingUsers(), 1)

	require.NoError(t, store.SelectRoom(context.Background(), room("r2", "random")))
	assert.Empty(t, store.TypingUsers(), "typing set must reset on room switch")
	assert.Empty(t, store.Messages(), "old thread must not bleed into the new room")
}

func TestStore_OpenDirectRoom_NotInSidebar(t *testing.T) {
	b := newChatBackend(t)
	b.myRooms = []model.Room{room("r1", "general")}
	store := newTestStore(t, b)
	require.NoError(t, store.FetchRooms(context.Background()))

	dm, err := store.OpenDirectRoom(context.Background(), model.User{ID: "u2", Username: "bob"})
	require.NoError(t, err)
	assert.True(t, dm.IsDirect())

	current := store.CurrentRoom()
	require.NotNil(t, current)
	assert.Equal(t, dm.ID, current.ID)
}

func TestStore_CreateRoom_SelectsIt(t *testing.T) {
	b := newChatBackend(t)
	store := newTestStore(t, b)

	created, err := store.CreateRoom(context.Background(), "plans", "where plans happen")
	require.NoError(t, err)

	current := store.CurrentRoom()
	require.NotNil(t, current)
	assert.Equal(t, created.ID, current.ID)
}

// =============================================================================
// LIVE EVENT TESTS
// =============================================================================

func TestStore_AddIncomingMessage_ActiveRoomAppends(t *testing.T) {
	b := newChatBackend(t)
	store := newTestStore(t, b)
	require.NoError(t, store.SelectRoom(context.Background(), room("r1", "general")))

	store.AddIncomingMessage(model.Message{ID: "m1", RoomID: "r1", Content: "hi"})
	msgs := store.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
}

func TestStore_AddIncomingMessage_OtherRoomBumpsUnread(t *testing.T) {
	b := newChatBackend(t)
	b.myRooms = []model.Room{room("r1", "general"), room("r2", "random")}
	store := newTestStore(t, b)
	require.NoError(t, store.FetchRooms(context.Background()))
	require.NoError(t, store.SelectRoom(context.Background(), room("r1", "general")))

	store.AddIncomingMessage(model.Message{ID: "m1", RoomID: "r2", Content: "psst"})

	assert.Empty(t, store.Messages(), "foreign-room message must not enter the thread")
	for _, r := range store.Rooms() {
		if r.ID == "r2" {
			assert.Equal(t, 1, r.UnreadCount)
		}
	}
}

func TestStore_AddIncomingMessage_ClearsAuthorTyping(t *testing.T) {
	b := newChatBackend(t)
	store := newTestStore(t, b)
	require.NoError(t, store.SelectRoom(context.Background(), room("r1", "general")))

	store.SetTyping(model.TypingEvent{UserID: "u2", Username: "bob", RoomID: "r1", IsTyping: true})
	store.AddIncomingMessage(model.Message{ID: "m1", RoomID: "r1", UserID: "u2"})
	assert.Empty(t, store.TypingUsers())
}

func TestStore_SetTyping(t *testing.T) {
	b := newChatBackend(t)
	store := newTestStore(t, b)
	require.NoError(t, store.SelectRoom(context.Background(), room("r1", "general")))

	// Own echo is ignored.
	store.SetTyping(model.TypingEvent{UserID: "me", Username: "self", RoomID: "r1", IsTyping: true})
	assert.Empty(t, store.TypingUsers())

	// Foreign room is ignored.
	store.SetTyping(model.TypingEvent{UserID: "u2", Username: "bob", RoomID: "r9", IsTyping: true})
	assert.Empty(t, store.TypingUsers())

	// Add, then remove.
	store.SetTyping(model.TypingEvent{UserID: "u2", Username: "bob", RoomID: "r1", IsTyping: true})
	assert.Equal(t, []string{"bob"}, store.TypingUsers())
	store.SetTyping(model.TypingEvent{UserID: "u2", Username: "bob", RoomID: "r1", IsTyping: false})
	assert.Empty(t, store.TypingUsers())

	// Removing an absent user is a no-op.
	store.SetTyping(model.TypingEvent{UserID: "u3", Username: "carol", RoomID: "r1", IsTyping: false})
	assert.Empty(t, store.TypingUsers())
}

func TestStore_SendMessage_RequiresActiveRoom(t *testing.T) {
	b := newChatBackend(t)
	store := newTestStore(t, b)

	// No room selected and no live socket: both must be harmless.
	store.SendMessage("into the void")
	store.StartTyping()
	store.StopTyping()
}

func TestStore_Reset(t *testing.T) {
	b := newChatBackend(t)
	b.myRooms = []model.Room{room("r1", "general")}
	store := newTestStore(t, b)
	require.NoError(t, store.FetchRooms(context.Background()))
	require.NoError(t, store.SelectRoom(context.Background(), room("r1", "general")))

	store.Reset()
	assert.Empty(t, store.Rooms())
	assert.Nil(t, store.CurrentRoom())
	assert.Empty(t, store.Messages())
	assert.Empty(t, store.TypingUsers())
}
