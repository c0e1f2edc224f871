// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the parley TUI.
//
// Components here are shared between screens: the bottom status bar and
// the non-blocking toast notifications. Screen-specific widgets live
// with their screens.
package components
