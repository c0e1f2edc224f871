// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the parley TUI.
//
// The package defines an adaptive color palette (light/dark terminal
// backgrounds) and a Theme that holds every configured lipgloss style
// the screens use: sidebar, message thread, input bar, status bar and
// the auth forms. Screens never construct styles inline; they take a
// *Theme so the whole application restyles from one place.
package styles
