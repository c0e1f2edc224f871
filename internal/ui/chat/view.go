// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/parley-chat/parley/internal/model"
	"github.com/parley-chat/parley/internal/ui/components"
	"github.com/parley-chat/parley/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	sidebar := m.renderSidebar()
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderTypingLine(),
		m.renderInput(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	var parts []string
	parts = append(parts, body)
	if m.toasts.HasToasts() {
		parts = append(parts, components.RenderToastStack(m.theme, m.toasts.GetToasts(), m.width))
	}
	parts = append(parts, m.statusBar.Render())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// SIDEBAR
// =============================================================================

// renderSidebar draws the room list and the user directory.
func (m Model) renderSidebar() string {
	var b strings.Builder

	roomsTitle := "ROOMS"
	if m.browseMode {
		roomsTitle = "ALL ROOMS"
	}
	if m.focus == focusRooms {
		roomsTitle += " ◂"
	}
	b.WriteString(m.theme.SidebarSection.Render(roomsTitle))
	b.WriteString("\n")

	roomList := m.visibleRooms()
	if len(roomList) == 0 {
		b.WriteString(m.theme.SidebarItem.Render("no rooms yet"))
		b.WriteString("\n")
	}
	current := m.store.CurrentRoom()
	for i, room := range roomList {
		b.WriteString(m.renderRoomItem(room, i, current))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	usersTitle := "USERS"
	if m.focus == focusUsers {
		usersTitle = "USERS ◂"
	}
	b.WriteString(m.theme.SidebarSection.Render(usersTitle))
	b.WriteString("\n")

	for i, user := range m.store.Users() {
		b.WriteString(m.renderUserItem(user, i))
		b.WriteString("\n")
	}

	if m.newRoomMode {
		b.WriteString("\n")
		b.WriteString(m.theme.SidebarSection.Render("NEW ROOM"))
		b.WriteString("\n")
		b.WriteString(m.newRoomInput.View())
		b.WriteString("\n")
	}

	height := m.height - statusBarHeight
	return m.theme.Sidebar.Width(sidebarWidth).Height(height).Render(b.String())
}

// renderRoomItem draws one sidebar room row with its unread badge.
func (m Model) renderRoomItem(room model.Room, index int, current *model.Room) string {
	label := util.TruncateWidth("# "+room.Name, sidebarWidth-6)
	if badge := room.UnreadBadge(); badge != "" {
		label += " " + m.theme.UnreadBadge.Render(badge)
	}

	switch {
	case current != nil && current.ID == room.ID:
		return m.theme.SidebarSelected.Render(label)
	case m.focus == focusRooms && index == m.roomIndex:
		return m.theme.SidebarFocused.Render(label)
	default:
		return m.theme.SidebarItem.Render(label)
	}
}

// renderUserItem draws one sidebar user row.
func (m Model) renderUserItem(user model.User, index int) string {
	label := util.TruncateWidth("@ "+user.DisplayName(), sidebarWidth-4)
	if user.ID == m.session.CurrentUser().ID {
		label += m.theme.DirectIndicator.Render(" (you)")
	}

	if m.focus == focusUsers && index == m.userIndex {
		return m.theme.SidebarFocused.Render(label)
	}
	return m.theme.SidebarItem.Render(label)
}

// =============================================================================
// HEADER AND THREAD
// =============================================================================

// renderHeader draws the active room title line.
func (m Model) renderHeader() string {
	room := m.store.CurrentRoom()
	if room == nil {
		return m.theme.Header.Render(m.theme.HeaderSubtitle.Render("Select a room to start chatting"))
	}

	prefix := "#"
	if room.IsDirect() {
		prefix = "@"
	}
	title := m.theme.HeaderTitle.Render(prefix + " " + room.Name)
	if room.Description != "" {
		title += "  " + m.theme.HeaderSubtitle.Render(util.TruncateWidth(room.Description, m.viewport.Width/2))
	}
	if m.loading {
		title += "  " + m.spinner.View()
	}
	return m.theme.Header.Render(title)
}

// renderThread draws the active room's messages, oldest first, with a
// divider wherever the calendar day changes.
func (m Model) renderThread() string {
	messages := m.store.Messages()
	if len(messages) == 0 {
		return m.theme.EmptyThread.Render("No messages yet. Say something!")
	}

	selfID := m.session.CurrentUser().ID
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	var lastDay string
	for _, msg := range messages {
		day := dayLabel(msg.CreatedAt)
		if day != lastDay {
			b.WriteString(m.renderDayDivider(day, width))
			b.WriteString("\n")
			lastDay = day
		}

		author := m.theme.OtherAuthor.Render(msg.AuthorName())
		if msg.IsFrom(selfID) {
			author = m.theme.OwnAuthor.Render(msg.AuthorName())
		}
		stamp := m.theme.Timestamp.Render(msg.CreatedAt.Local().Format("15:04"))

		b.WriteString(author + " " + stamp + "\n")
		b.WriteString(m.theme.MessageText.Width(width).Render(msg.Content))
		b.WriteString("\n")
	}
	return b.String()
}

// dayLabel names a message's calendar day relative to now.
func dayLabel(t time.Time) string {
	local := t.Local()
	day := local.Format("2006-01-02")
	now := time.Now()
	switch day {
	case now.Format("2006-01-02"):
		return "Today"
	case now.AddDate(0, 0, -1).Format("2006-01-02"):
		return "Yesterday"
	default:
		return local.Format("Monday, January 2")
	}
}

// renderDayDivider centers a date label in a rule line.
func (m Model) renderDayDivider(day string, width int) string {
	label := " " + day + " "
	fill := width - util.StringWidth(label)
	if fill < 2 {
		return m.theme.DayDivider.Render(label)
	}
	left := strings.Repeat("─", fill/2)
	right := strings.Repeat("─", fill-fill/2)
	return m.theme.DayDivider.Render(left + label + right)
}

// renderTypingLine draws who is composing in the active room.
func (m Model) renderTypingLine() string {
	names := m.store.TypingUsers()
	var text string
	switch len(names) {
	case 0:
		text = ""
	case 1:
		text = fmt.Sprintf("%s is typing...", names[0])
	case 2:
		text = fmt.Sprintf("%s and %s are typing...", names[0], names[1])
	default:
		text = "Several people are typing..."
	}
	return m.theme.TypingLine.Width(m.viewport.Width).Render(text)
}

// renderInput draws the compose box.
func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.viewport.Width).Render(m.input.View())
}
