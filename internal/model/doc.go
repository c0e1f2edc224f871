// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the API
// client, the socket layer, and the UI: users, rooms, messages, and the
// payloads of pushed events.
//
// All types are JSON-tagged to match the backend's wire format. Messages
// are immutable once created; the client only ever appends them.
package model
