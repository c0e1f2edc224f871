// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the API
// client, the socket layer, and the UI.
package model

import "time"

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// MessageAuthor is the embedded author record the backend attaches to
// every message.
type MessageAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Message is a single chat message. Messages belong to exactly one room
// and are immutable once created: the client appends them (from a
// history fetch or a push) and never mutates or deletes them.
type Message struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	RoomID    string        `json:"roomId"`
	UserID    string        `json:"userId"`
	User      MessageAuthor `json:"user"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// AuthorName returns the display name of the message author.
func (m Message) AuthorName() string {
	if m.User.Username != "" {
		return m.User.Username
	}
	return m.UserID
}

// IsFrom reports whether the message was written by the given user.
func (m Message) IsFrom(userID string) bool {
	return m.UserID == userID
}

// =============================================================================
// MESSAGE ORDERING
// =============================================================================

// SortOldestFirst reverses a newest-first message slice in place. The
// backend pages history newest-first; the thread view renders
// oldest-first, so every history fetch passes through here exactly once.
func SortOldestFirst(messages []Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
