// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/parley-chat/parley/internal/model"
	"github.com/parley-chat/parley/internal/rooms"
	"github.com/parley-chat/parley/internal/session"
	"github.com/parley-chat/parley/internal/ui/components"
	"github.com/parley-chat/parley/internal/ui/styles"
)

// focusArea is the pane that receives keyboard input.
type focusArea int

const (
	focusRooms focusArea = iota
	focusUsers
	focusInput
)

// Layout constants.
const (
	sidebarWidth    = 26
	statusBarHeight = 1
	inputHeight     = 3
	headerHeight    = 1
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	theme   *styles.Theme
	session *session.Store
	store   *rooms.Store

	focus     focusArea
	roomIndex int
	userIndex int

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	loading  bool

	statusBar *components.StatusBar
	toasts    *components.ToastManager

	// New-room prompt. While active it captures all input.
	newRoomMode  bool
	newRoomInput textinput.Model

	// Browse mode swaps the sidebar's joined list for the full public
	// room directory. The directory lives here, not in the store.
	browseMode  bool
	browseRooms []model.Room

	// Stop-typing debounce. Each keystroke bumps typingSeq and schedules
	// an expiry carrying the new value; only the expiry matching the
	// current value fires the stop signal.
	typingSeq    int
	typingActive bool

	connected bool
	width     int
	height    int
}

// New creates the chat screen model.
func New(theme *styles.Theme, sess *session.Store, store *rooms.Store) Model {
	input := textinput.New()
	input.Placeholder = "Message..."
	input.CharLimit = 2000
	input.Prompt = "> "

	newRoom := textinput.New()
	newRoom.Placeholder = "room name"
	newRoom.CharLimit = 64
	newRoom.Prompt = "# "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Indigo)

	m := Model{
		theme:        theme,
		session:      sess,
		store:        store,
		focus:        focusRooms,
		input:        input,
		newRoomInput: newRoom,
		viewport:     viewport.New(0, 0),
		spinner:      sp,
		statusBar:    components.NewStatusBar(theme),
		toasts:       components.NewToastManager(),
	}
	m.statusBar.Username = sess.CurrentUser().Username
	m.statusBar.SetConnection(false)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchRoomsCmd(m.store),
		fetchUsersCmd(m.store),
		textinput.Blink,
	)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		if m.toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case RoomsLoadedMsg:
		if msg.Err != nil {
			return m.toastError("Couldn't load rooms: " + msg.Err.Error())
		}
		m.clampSelection()
		return m, nil

	case UsersLoadedMsg:
		if msg.Err != nil {
			return m.toastError("Couldn't load users: " + msg.Err.Error())
		}
		m.clampSelection()
		return m, nil

	case AllRoomsLoadedMsg:
		if msg.Err != nil {
			m.browseMode = false
			return m.toastError("Couldn't load room directory: " + msg.Err.Error())
		}
		m.browseRooms = msg.Rooms
		m.roomIndex = 0
		return m, nil

	case ThreadLoadedMsg:
		m.setLoading(false)
		if msg.Err != nil {
			return m.toastError("Couldn't load messages: " + msg.Err.Error())
		}
		m.refreshThread(true)
		return m, nil

	case RoomSelectedMsg:
		return m.handleRoomSelected(msg)

	case RoomCreatedMsg:
		m.setLoading(false)
		if msg.Err != nil {
			return m.toastError("Couldn't create room: " + msg.Err.Error())
		}
		m.afterRoomSwitch("#" + msg.Room.Name)
		return m.toastSuccess("Created #" + msg.Room.Name)

	case DirectRoomMsg:
		m.setLoading(false)
		if msg.Err != nil {
			return m.toastError("Couldn't open conversation: " + msg.Err.Error())
		}
		m.afterRoomSwitch("@" + msg.With.DisplayName())
		return m, nil

	case IncomingMessageMsg:
		m.store.AddIncomingMessage(msg.Message)
		if room := m.store.CurrentRoom(); room != nil && room.ID == msg.Message.RoomID {
			m.refreshThread(m.viewport.AtBottom())
		}
		return m, nil

	case TypingEventMsg:
		m.store.SetTyping(msg.Event)
		m.refreshThread(false)
		return m, nil

	case PresenceMsg:
		return m.handlePresence(msg)

	case RoomJoinedMsg:
		// Delivery confirmed; nothing to update.
		return m, nil

	case ConnectionMsg:
		m.connected = msg.Connected
		m.statusBar.SetConnection(msg.Connected)
		if !msg.Connected {
			return m.toastError("Connection lost")
		}
		if room := m.store.CurrentRoom(); room != nil {
			// Pushes missed while offline never arrive; reload the thread.
			return m, fetchThreadCmd(m.store, room.ID)
		}
		return m, nil

	case PushErrorMsg:
		return m.toastError(msg.Message)

	case TypingExpiredMsg:
		if msg.Seq == m.typingSeq && m.typingActive {
			m.typingActive = false
			m.store.StopTyping()
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// handleRoomSelected finalizes a room switch.
func (m Model) handleRoomSelected(msg RoomSelectedMsg) (Model, tea.Cmd) {
	m.setLoading(false)
	if msg.Err != nil {
		// The switch was aborted; the previous room is still active.
		return m.toastError(msg.Err.Error())
	}
	m.afterRoomSwitch("#" + msg.Room.Name)
	return m, nil
}

// afterRoomSwitch resets per-room UI state once a switch succeeded.
func (m *Model) afterRoomSwitch(label string) {
	m.browseMode = false
	m.statusBar.SetRoom(label)
	m.resetTyping()
	m.setFocus(focusInput)
	m.refreshThread(true)
	m.syncRoomIndex()
}

// handlePresence surfaces joins and leaves for the active room.
func (m Model) handlePresence(msg PresenceMsg) (Model, tea.Cmd) {
	room := m.store.CurrentRoom()
	if room == nil || room.ID != msg.Event.RoomID {
		return m, nil
	}
	verb := "left"
	if msg.Joined {
		verb = "joined"
	}
	return m.toastStatus(fmt.Sprintf("%s %s #%s", msg.Event.Username, verb, room.Name))
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey routes key presses by focus pane.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.newRoomMode {
		return m.handleNewRoomKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+l":
		return m, func() tea.Msg { return LogoutMsg{} }

	case "ctrl+n":
		m.newRoomMode = true
		m.newRoomInput.SetValue("")
		m.newRoomInput.Focus()
		m.input.Blur()
		return m, textinput.Blink

	case "ctrl+r":
		cmds := []tea.Cmd{fetchRoomsCmd(m.store), fetchUsersCmd(m.store)}
		if room := m.store.CurrentRoom(); room != nil {
			m.setLoading(true)
			cmds = append(cmds, fetchThreadCmd(m.store, room.ID))
		}
		return m, tea.Batch(cmds...)

	case "tab":
		m.setFocus(m.nextFocus(1))
		return m, nil

	case "shift+tab":
		m.setFocus(m.nextFocus(-1))
		return m, nil

	case "esc":
		if m.focus == focusInput {
			m.setFocus(focusRooms)
		}
		return m, nil
	}

	switch m.focus {
	case focusRooms:
		return m.handleRoomsKey(msg)
	case focusUsers:
		return m.handleUsersKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

// handleNewRoomKey drives the new-room prompt.
func (m Model) handleNewRoomKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.newRoomMode = false
		m.newRoomInput.Blur()
		m.setFocus(m.focus)
		return m, nil

	case "enter":
		name := m.newRoomInput.Value()
		m.newRoomMode = false
		m.newRoomInput.Blur()
		if name == "" {
			return m, nil
		}
		m.setLoading(true)
		return m, tea.Batch(m.spinner.Tick, createRoomCmd(m.store, name))
	}

	var cmd tea.Cmd
	m.newRoomInput, cmd = m.newRoomInput.Update(msg)
	return m, cmd
}

// handleRoomsKey navigates the sidebar room list (joined or browse).
func (m Model) handleRoomsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	roomList := m.visibleRooms()
	switch msg.String() {
	case "up", "k":
		if m.roomIndex > 0 {
			m.roomIndex--
		}
	case "down", "j":
		if m.roomIndex < len(roomList)-1 {
			m.roomIndex++
		}
	case "a":
		if m.browseMode {
			m.browseMode = false
			m.syncRoomIndex()
			return m, nil
		}
		m.browseMode = true
		m.roomIndex = 0
		return m, fetchAllRoomsCmd(m.store)
	case "enter":
		if m.roomIndex < len(roomList) {
			m.setLoading(true)
			return m, tea.Batch(m.spinner.Tick, selectRoomCmd(m.store, roomList[m.roomIndex]))
		}
	}
	return m, nil
}

// visibleRooms is what the rooms section currently lists.
func (m Model) visibleRooms() []model.Room {
	if m.browseMode {
		return m.browseRooms
	}
	return m.store.Rooms()
}

// handleUsersKey navigates the sidebar user list.
func (m Model) handleUsersKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	userList := m.store.Users()
	switch msg.String() {
	case "up", "k":
		if m.userIndex > 0 {
			m.userIndex--
		}
	case "down", "j":
		if m.userIndex < len(userList)-1 {
			m.userIndex++
		}
	case "enter":
		if m.userIndex < len(userList) {
			m.setLoading(true)
			return m, tea.Batch(m.spinner.Tick, openDirectCmd(m.store, userList[m.userIndex]))
		}
	}
	return m, nil
}

// handleInputKey drives the compose input and the typing signals.
func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		content := m.input.Value()
		if content == "" {
			return m, nil
		}
		m.store.SendMessage(content)
		m.input.SetValue("")
		// Sending ends the typing burst immediately.
		m.typingSeq++
		if m.typingActive {
			m.typingActive = false
			m.store.StopTyping()
		}
		return m, nil

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace || msg.Type == tea.KeyBackspace {
		if !m.typingActive {
			m.typingActive = true
			m.store.StartTyping()
		}
		m.typingSeq++
		return m, tea.Batch(cmd, typingStopCmd(m.typingSeq))
	}
	return m, cmd
}

// updateFocused forwards unrecognized messages to the active widget.
func (m Model) updateFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	if m.newRoomMode {
		m.newRoomInput, cmd = m.newRoomInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// FOCUS AND LAYOUT
// =============================================================================

// nextFocus cycles rooms → users → input.
func (m Model) nextFocus(dir int) focusArea {
	order := []focusArea{focusRooms, focusUsers, focusInput}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(order)) % len(order)
	return order[idx]
}

// setFocus moves keyboard focus between panes.
func (m *Model) setFocus(focus focusArea) {
	m.focus = focus
	if focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// setSize recomputes the layout for a new terminal size.
func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.statusBar.SetWidth(width)

	threadWidth := width - sidebarWidth - 2
	if threadWidth < 20 {
		threadWidth = 20
	}
	threadHeight := height - statusBarHeight - inputHeight - headerHeight - 1
	if threadHeight < 3 {
		threadHeight = 3
	}
	m.viewport.Width = threadWidth
	m.viewport.Height = threadHeight
	m.input.Width = threadWidth - 4
	m.refreshThread(m.viewport.AtBottom())
}

// setLoading toggles the spinner and the status bar together.
func (m *Model) setLoading(v bool) {
	m.loading = v
	if v {
		m.statusBar.SetStatus(components.StatusLoading)
	} else {
		m.statusBar.SetStatus(components.StatusReady)
	}
}

// clampSelection keeps the sidebar cursors inside their lists.
func (m *Model) clampSelection() {
	if n := len(m.visibleRooms()); m.roomIndex >= n && n > 0 {
		m.roomIndex = n - 1
	}
	if n := len(m.store.Users()); m.userIndex >= n && n > 0 {
		m.userIndex = n - 1
	}
}

// syncRoomIndex points the sidebar cursor at the active room when it is
// in the list. Direct rooms are not listed, so the cursor stays put.
func (m *Model) syncRoomIndex() {
	room := m.store.CurrentRoom()
	if room == nil {
		return
	}
	for i, r := range m.store.Rooms() {
		if r.ID == room.ID {
			m.roomIndex = i
			return
		}
	}
}

// resetTyping invalidates any scheduled stop-typing expiry.
func (m *Model) resetTyping() {
	m.typingSeq++
	m.typingActive = false
}

// refreshThread re-renders the viewport content.
func (m *Model) refreshThread(follow bool) {
	m.viewport.SetContent(m.renderThread())
	if follow {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// TOAST SHORTHANDS
// =============================================================================

func (m Model) toastError(message string) (Model, tea.Cmd) {
	m.setLoading(false)
	m.toasts.AddError(message)
	return m, components.ToastTickCmd()
}

func (m Model) toastStatus(message string) (Model, tea.Cmd) {
	m.toasts.AddStatus(message)
	return m, components.ToastTickCmd()
}

func (m Model) toastSuccess(message string) (Model, tea.Cmd) {
	m.toasts.AddSuccess(message)
	return m, components.ToastTickCmd()
}
