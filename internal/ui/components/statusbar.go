// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the parley TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/parley-chat/parley/internal/ui/styles"
	"github.com/parley-chat/parley/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT - bottom status bar
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status.
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusLoading:
		return styles.StatusIndicators.Info
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// StatusBar is the bottom status bar: logged-in user, active room,
// connection state and key hints.
type StatusBar struct {
	Username      string // Logged-in user
	RoomName      string // Active room label ("" when none)
	Connected     bool   // Push channel state
	Status        Status // Current status
	Width         int    // Available width
	ShowShortcuts bool   // Show keyboard shortcuts
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetConnection updates the push channel indicator.
func (s *StatusBar) SetConnection(connected bool) {
	s.Connected = connected
}

// SetStatus updates the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetRoom updates the active room label. The caller supplies the
// prefix ("#general", "@bob") since only it knows the room kind.
func (s *StatusBar) SetRoom(label string) {
	s.RoomName = label
}

// Render renders the status bar.
func (s *StatusBar) Render() string {
	var left []string
	left = append(left, s.Status.Icon()+" "+s.Status.String())
	if s.RoomName != "" {
		left = append(left, util.TruncateRunes(s.RoomName, 24))
	}
	if s.Username != "" {
		left = append(left, "@"+s.Username)
	}

	var conn string
	if s.Connected {
		conn = s.theme.Connected.Render(styles.StatusIndicators.Online + " live")
	} else {
		conn = s.theme.Disconnected.Render(styles.StatusIndicators.Offline + " offline")
	}

	var hints string
	if s.ShowShortcuts && s.Width >= 80 {
		hints = s.renderShortcuts()
	}

	leftPart := strings.Join(left, "  ")
	rightPart := conn
	if hints != "" {
		rightPart = hints + "  " + conn
	}

	gap := s.Width - lipgloss.Width(leftPart) - lipgloss.Width(rightPart) - 2
	if gap < 1 {
		gap = 1
	}

	bar := leftPart + strings.Repeat(" ", gap) + rightPart
	return s.theme.StatusBar.Width(s.Width).Render(bar)
}

// renderShortcuts renders the key hints segment.
func (s *StatusBar) renderShortcuts() string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"tab", "focus"},
		{"ctrl+n", "new room"},
		{"ctrl+l", "logout"},
		{"ctrl+c", "quit"},
	}

	parts := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.key)+" "+s.theme.ShortcutDesc.Render(sc.desc))
	}
	return strings.Join(parts, "  ")
}
