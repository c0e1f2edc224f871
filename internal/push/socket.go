// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package push maintains the persistent websocket connection over which
// the backend delivers live events.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// =============================================================================
// ENVELOPE
// =============================================================================

// Envelope is the wire format for both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Handler receives the raw payload of an inbound event. Decoding into
// the concrete model type is the subscriber's job.
type Handler func(data json.RawMessage)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds configuration options for the socket.
type Config struct {
	// URL is the websocket endpoint (default: ws://127.0.0.1:3000/ws)
	URL string

	// DialTimeout bounds the handshake (default: 10s)
	DialTimeout time.Duration

	// WriteTimeout bounds each outbound write (default: 5s)
	WriteTimeout time.Duration
}

// DefaultConfig returns the default socket configuration.
func DefaultConfig() *Config {
	return &Config{
		URL:          "ws://127.0.0.1:3000/ws",
		DialTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// =============================================================================
// SOCKET
// =============================================================================

// Socket is the client side of the push channel. At most one live
// connection exists per Socket; Connect while connected is a no-op and
// Disconnect releases the connection so a later Connect can redial.
//
// Safe for concurrent use.
type Socket struct {
	config   *Config
	clientID string

	mu     sync.Mutex
	conn   *websocket.Conn
	sendCh chan Envelope
	done   chan struct{}

	subMu sync.Mutex
	subs  map[string][]*Subscription
}

// NewSocket creates a disconnected socket with default configuration.
func NewSocket() *Socket {
	return NewSocketWithConfig(DefaultConfig())
}

// NewSocketWithConfig creates a disconnected socket with custom
// configuration.
func NewSocketWithConfig(config *Config) *Socket {
	if config == nil {
		config = DefaultConfig()
	}
	if config.URL == "" {
		config.URL = "ws://127.0.0.1:3000/ws"
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 10 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 5 * time.Second
	}

	return &Socket{
		config:   config,
		clientID: uuid.NewString(),
		subs:     make(map[string][]*Subscription),
	}
}

// =============================================================================
// CONNECTION LIFECYCLE
// =============================================================================

// Connect dials the push endpoint with the given bearer token.
// Idempotent: returns nil immediately if already connected.
func (s *Socket) Connect(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return nil
	}

	u, err := url.Parse(s.config.URL)
	if err != nil {
		return fmt.Errorf("invalid socket URL: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	q.Set("client", s.clientID)
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: s.config.DialTimeout}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect push channel: %w", err)
	}

	s.conn = conn
	s.sendCh = make(chan Envelope, 32)
	s.done = make(chan struct{})

	go s.readPump(conn, s.done)
	go s.writePump(conn, s.sendCh, s.done)

	return nil
}

// Disconnect closes and releases the connection. Safe to call when
// already disconnected.
func (s *Socket) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
}

// teardownLocked closes the live connection. Caller holds s.mu.
func (s *Socket) teardownLocked() {
	if s.conn == nil {
		return
	}
	close(s.done)
	s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	s.conn.Close()
	s.conn = nil
	s.sendCh = nil
	s.done = nil
}

// IsConnected reports whether a live connection exists.
func (s *Socket) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// ClientID returns the stable per-process identifier sent on dial.
func (s *Socket) ClientID() string {
	return s.clientID
}

// =============================================================================
// OUTBOUND
// =============================================================================

// Emit queues an outbound event. Fire-and-forget: emitting while
// disconnected, or while the write queue is full, drops the event
// silently.
func (s *Socket) Emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("push: dropping %s event: %v", event, err)
		return
	}

	s.mu.Lock()
	ch := s.sendCh
	s.mu.Unlock()
	if ch == nil {
		return
	}

	select {
	case ch <- Envelope{Event: event, Data: data}:
	default:
		log.Printf("push: write queue full, dropping %s event", event)
	}
}

// JoinRoom signals the server to start forwarding the room's live
// events to this connection.
func (s *Socket) JoinRoom(roomID string) {
	s.Emit(EventJoinRoom, RoomSignal{RoomID: roomID})
}

// LeaveRoom signals the server to stop forwarding the room's events.
func (s *Socket) LeaveRoom(roomID string) {
	s.Emit(EventLeaveRoom, RoomSignal{RoomID: roomID})
}

// SendMessage sends a chat message over the live channel. The server
// stores it and pushes it back as message-received.
func (s *Socket) SendMessage(roomID, content string) {
	s.Emit(EventSendMessage, SendMessageSignal{RoomID: roomID, Content: content})
}

// StartTyping signals that the user began composing in the room.
func (s *Socket) StartTyping(roomID string) {
	s.Emit(EventTypingStart, RoomSignal{RoomID: roomID})
}

// StopTyping signals that the user stopped composing in the room.
func (s *Socket) StopTyping(roomID string) {
	s.Emit(EventTypingStop, RoomSignal{RoomID: roomID})
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscription is the handle returned by Subscribe. Cancel removes it;
// cancelling twice is harmless.
type Subscription struct {
	id      string
	event   string
	handler Handler
	socket  *Socket
}

// Cancel removes the subscription.
func (sub *Subscription) Cancel() {
	if sub.socket == nil {
		return
	}
	sub.socket.unsubscribe(sub)
	sub.socket = nil
}

// Subscribe registers a handler for an inbound event name. Multiple
// independent subscriptions per event are supported; each gets its own
// handle.
func (s *Socket) Subscribe(event string, handler Handler) *Subscription {
	sub := &Subscription{
		id:      uuid.NewString(),
		event:   event,
		handler: handler,
		socket:  s,
	}

	s.subMu.Lock()
	s.subs[event] = append(s.subs[event], sub)
	s.subMu.Unlock()

	return sub
}

func (s *Socket) unsubscribe(sub *Subscription) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	list := s.subs[sub.event]
	for i, candidate := range list {
		if candidate.id == sub.id {
			s.subs[sub.event] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// dispatch fans an inbound envelope out to subscribers. Handlers run on
// the read goroutine.
func (s *Socket) dispatch(env Envelope) {
	s.subMu.Lock()
	list := append([]*Subscription(nil), s.subs[env.Event]...)
	s.subMu.Unlock()

	for _, sub := range list {
		sub.handler(env.Data)
	}
}

// =============================================================================
// PUMPS
// =============================================================================

// readPump decodes inbound envelopes until the connection dies. A read
// failure on a still-current connection tears it down and surfaces as a
// synthetic "error" event so subscribers learn the channel is gone.
func (s *Socket) readPump(conn *websocket.Conn, done chan struct{}) {
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			select {
			case <-done:
				// Deliberate disconnect; stay quiet.
			default:
				s.mu.Lock()
				if s.conn == conn {
					s.teardownLocked()
				}
				s.mu.Unlock()

				data, _ := json.Marshal(map[string]string{"message": "push channel lost: " + err.Error()})
				s.dispatch(Envelope{Event: EventError, Data: data})
			}
			return
		}
		s.dispatch(env)
	}
}

// writePump serializes all writes onto one goroutine, as the websocket
// connection permits only a single concurrent writer.
func (s *Socket) writePump(conn *websocket.Conn, sendCh chan Envelope, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case env := <-sendCh:
			conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := conn.WriteJSON(env); err != nil {
				log.Printf("push: write failed: %v", err)
				return
			}
		}
	}
}
