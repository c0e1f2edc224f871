// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat screen for the parley TUI.
//
// The screen is a three-pane layout: a sidebar listing joined rooms
// and known users, a message thread for the active room, and the
// compose input. A status bar with connection state and key hints sits
// at the bottom; toasts stack above it.
//
// Live events arrive as Bubble Tea messages (see messages.go). The
// push-to-program bridge lives with the program composition, not here;
// this package only defines the message types it consumes.
package chat
