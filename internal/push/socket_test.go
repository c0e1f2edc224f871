// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package push maintains the persistent websocket connection over which
// the backend delivers live events.
package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServer is a minimal push backend: it records the dial request,
// captures every inbound envelope, and can push envelopes to the client.
type stubServer struct {
	t        *testing.T
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	conn     *websocket.Conn
	token    string
	inbound  chan Envelope
	accepted chan struct{}
}

func newStubServer(t *testing.T) *stubServer {
	t.Helper()
	s := &stubServer{
		t:        t,
		inbound:  make(chan Envelope, 16),
		accepted: make(chan struct{}, 1),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conn = conn
		s.token = r.URL.Query().Get("token")
		s.mu.Unlock()
		s.accepted <- struct{}{}

		for {
			var env Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			s.inbound <- env
		}
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *stubServer) url() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

func (s *stubServer) push(event string, payload any) {
	data, err := json.Marshal(payload)
	require.NoError(s.t, err)
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotNil(s.t, s.conn, "no client connected")
	require.NoError(s.t, s.conn.WriteJSON(Envelope{Event: event, Data: data}))
}

func (s *stubServer) waitAccepted() {
	select {
	case <-s.accepted:
	case <-time.After(2 * time.Second):
		s.t.Fatal("client never connected")
	}
}

func (s *stubServer) nextInbound() Envelope {
	select {
	case env := <-s.inbound:
		return env
	case <-time.After(2 * time.Second):
		s.t.Fatal("no inbound envelope arrived")
		return Envelope{}
	}
}

func connectedSocket(t *testing.T, server *stubServer) *Socket {
	t.Helper()
	sock := NewSocketWithConfig(&Config{URL: server.url()})
	require.NoError(t, sock.Connect(context.Background(), "tok-1"))
	t.Cleanup(sock.Disconnect)
	server.waitAccepted()
	return sock
}

// =============================================================================
// CONNECTION TESTS
// =============================================================================

func TestSocket_ConnectCarriesToken(t *testing.T) {
	server := newStubServer(t)
	connectedSocket(t, server)

	server.mu.Lock()
	defer server.mu.Unlock()
	assert.Equal(t, "tok-1", server.token)
}

func TestSocket_ConnectIdempotent(t *testing.T) {
	server := newStubServer(t)
	sock := connectedSocket(t, server)

	// Second connect must be a no-op, not a redial.
	require.NoError(t, sock.Connect(context.Background(), "tok-2"))
	assert.True(t, sock.IsConnected())
	select {
	case <-server.accepted:
		t.Fatal("second Connect dialed a new connection")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSocket_DisconnectReleasesHandle(t *testing.T) {
	server := newStubServer(t)
	sock := connectedSocket(t, server)

	sock.Disconnect()
	assert.False(t, sock.IsConnected())

	// Disconnect again is harmless.
	sock.Disconnect()

	// A later connect creates a fresh connection.
	require.NoError(t, sock.Connect(context.Background(), "tok-3"))
	server.waitAccepted()
	assert.True(t, sock.IsConnected())
}

func TestSocket_ConnectFailure(t *testing.T) {
	sock := NewSocketWithConfig(&Config{
		URL:         "ws://127.0.0.1:1/ws",
		DialTimeout: time.Second,
	})
	err := sock.Connect(context.Background(), "tok")
	require.Error(t, err)
	assert.False(t, sock.IsConnected())
}

// =============================================================================
// OUTBOUND TESTS
// =============================================================================

func TestSocket_EmitSendsEnvelope(t *testing.T) {
	server := newStubServer(t)
	sock := connectedSocket(t, server)

	sock.SendMessage("r1", "hi")

	env := server.nextInbound()
	assert.Equal(t, EventSendMessage, env.Event)

	var sig SendMessageSignal
	require.NoError(t, json.Unmarshal(env.Data, &sig))
	assert.Equal(t, "r1", sig.RoomID)
	assert.Equal(t, "hi", sig.Content)
}

func TestSocket_EmitWhileDisconnectedIsNoOp(t *testing.T) {
	sock := NewSocket()
	// Must not panic or block.
	sock.StartTyping("r1")
	sock.SendMessage("r1", "dropped")
}

func TestSocket_RoomSignals(t *testing.T) {
	server := newStubServer(t)
	sock := connectedSocket(t, server)

	sock.JoinRoom("r7")
	env := server.nextInbound()
	assert.Equal(t, EventJoinRoom, env.Event)

	sock.LeaveRoom("r7")
	env = server.nextInbound()
	assert.Equal(t, EventLeaveRoom, env.Event)

	var sig RoomSignal
	require.NoError(t, json.Unmarshal(env.Data, &sig))
	assert.Equal(t, "r7", sig.RoomID)
}

// =============================================================================
// SUBSCRIPTION TESTS
// =============================================================================

func TestSocket_SubscribeReceivesPush(t *testing.T) {
	server := newStubServer(t)
	sock := connectedSocket(t, server)

	got := make(chan json.RawMessage, 1)
	sock.Subscribe(EventMessageReceived, func(data json.RawMessage) {
		got <- data
	})

	server.push(EventMessageReceived, map[string]string{"id": "m1", "content": "hello"})

	select {
	case data := <-got:
		var payload map[string]string
		require.NoError(t, json.Unmarshal(data, &payload))
		assert.Equal(t, "hello", payload["content"])
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received the push")
	}
}

func TestSocket_MultipleSubscribersPerEvent(t *testing.T) {
	server := newStubServer(t)
	sock := connectedSocket(t, server)

	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)
	sock.Subscribe(EventUserTyping, func(json.RawMessage) { first <- struct{}{} })
	sock.Subscribe(EventUserTyping, func(json.RawMessage) { second <- struct{}{} })

	server.push(EventUserTyping, map[string]bool{"isTyping": true})

	for name, ch := range map[string]chan struct{}{"first": first, "second": second} {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("%s subscriber never fired", name)
		}
	}
}

func TestSubscription_Cancel(t *testing.T) {
	server := newStubServer(t)
	sock := connectedSocket(t, server)

	fired := make(chan struct{}, 4)
	sub := sock.Subscribe(EventUserJoined, func(json.RawMessage) { fired <- struct{}{} })
	kept := make(chan struct{}, 4)
	sock.Subscribe(EventUserJoined, func(json.RawMessage) { kept <- struct{}{} })

	sub.Cancel()
	sub.Cancel() // double-cancel is harmless

	server.push(EventUserJoined, map[string]string{"userId": "u1"})

	select {
	case <-kept:
	case <-time.After(2 * time.Second):
		t.Fatal("remaining subscriber never fired")
	}
	select {
	case <-fired:
		t.Fatal("cancelled subscription still fired")
	case <-time.After(100 * time.Millisecond):
	}
}

// =============================================================================
// FAILURE SURFACE TESTS
// =============================================================================

func TestSocket_ServerCloseSurfacesErrorEvent(t *testing.T) {
	server := newStubServer(t)
	sock := connectedSocket(t, server)

	errs := make(chan json.RawMessage, 1)
	sock.Subscribe(EventError, func(data json.RawMessage) { errs <- data })

	server.mu.Lock()
	server.conn.Close()
	server.mu.Unlock()

	select {
	case <-errs:
	case <-time.After(2 * time.Second):
		t.Fatal("connection loss did not surface as an error event")
	}
	assert.False(t, sock.IsConnected())
}
