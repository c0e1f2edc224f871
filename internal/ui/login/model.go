// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the authentication screens for the parley TUI.
package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/parley-chat/parley/internal/model"
	"github.com/parley-chat/parley/internal/session"
	"github.com/parley-chat/parley/internal/ui/styles"
)

// Mode selects which form is showing.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// Field indices into the inputs slice.
const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// minPasswordLen is enforced client side on registration.
const minPasswordLen = 6

// =============================================================================
// MESSAGES
// =============================================================================

// AuthResultMsg reports the outcome of a login or register attempt.
type AuthResultMsg struct {
	Err error
}

// =============================================================================
// LOGIN MODEL
// =============================================================================

// Model is the Bubble Tea model for the auth screens.
type Model struct {
	theme   *styles.Theme
	session *session.Store

	mode       Mode
	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string

	spinner spinner.Model

	width  int
	height int
}

// New creates the auth screen model.
func New(theme *styles.Theme, sess *session.Store) Model {
	inputs := make([]textinput.Model, fieldCount)

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 32
	inputs[fieldUsername] = username

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 128
	inputs[fieldEmail] = email

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	inputs[fieldPassword] = password

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Indigo)

	m := Model{
		theme:   theme,
		session: sess,
		mode:    ModeLogin,
		inputs:  inputs,
		spinner: sp,
	}
	m.setFocus(m.firstField())
	return m
}

// Mode returns the active form.
func (m Model) Mode() Mode {
	return m.mode
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case AuthResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		}
		// On success the app model swaps screens; nothing to do here.
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			// Ignore typing while a request is in flight.
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

// handleKey routes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+t":
		return m.toggleMode(), nil

	case "tab", "down":
		m.setFocus(m.nextField(m.focus, 1))
		return m, nil

	case "shift+tab", "up":
		m.setFocus(m.nextField(m.focus, -1))
		return m, nil

	case "enter":
		if m.focus != fieldPassword {
			m.setFocus(m.nextField(m.focus, 1))
			return m, nil
		}
		return m.submit()
	}

	return m.updateInputs(msg)
}

// updateInputs forwards a message to the focused input.
func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

// toggleMode flips between sign-in and create-account.
func (m Model) toggleMode() Model {
	if m.mode == ModeLogin {
		m.mode = ModeRegister
	} else {
		m.mode = ModeLogin
	}
	m.errMsg = ""
	m.setFocus(m.firstField())
	return m
}

// firstField is the topmost field of the active form.
func (m Model) firstField() int {
	if m.mode == ModeRegister {
		return fieldUsername
	}
	return fieldEmail
}

// nextField cycles focus over the active form's fields.
func (m Model) nextField(current, dir int) int {
	fields := []int{fieldEmail, fieldPassword}
	if m.mode == ModeRegister {
		fields = []int{fieldUsername, fieldEmail, fieldPassword}
	}

	idx := 0
	for i, f := range fields {
		if f == current {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(fields)) % len(fields)
	return fields[idx]
}

// setFocus moves keyboard focus to one field.
func (m *Model) setFocus(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// =============================================================================
// SUBMISSION
// =============================================================================

// submit validates the form and fires the auth request.
func (m Model) submit() (Model, tea.Cmd) {
	if err := m.validate(); err != "" {
		m.errMsg = err
		return m, nil
	}

	m.errMsg = ""
	m.submitting = true

	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()

	var authCmd tea.Cmd
	if m.mode == ModeRegister {
		username := strings.TrimSpace(m.inputs[fieldUsername].Value())
		authCmd = m.registerCmd(model.RegisterCredentials{
			Username: username,
			Email:    email,
			Password: password,
		})
	} else {
		authCmd = m.loginCmd(model.LoginCredentials{
			Email:    email,
			Password: password,
		})
	}

	return m, tea.Batch(m.spinner.Tick, authCmd)
}

// validate returns a user-facing problem string, or "".
func (m Model) validate() string {
	if m.mode == ModeRegister {
		if strings.TrimSpace(m.inputs[fieldUsername].Value()) == "" {
			return "Username is required"
		}
	}
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	if email == "" {
		return "Email is required"
	}
	if !strings.Contains(email, "@") {
		return "That doesn't look like an email address"
	}
	password := m.inputs[fieldPassword].Value()
	if password == "" {
		return "Password is required"
	}
	if m.mode == ModeRegister && len(password) < minPasswordLen {
		return "Password must be at least 6 characters"
	}
	return ""
}

// loginCmd runs the login request off the update loop.
func (m Model) loginCmd(creds model.LoginCredentials) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		return AuthResultMsg{Err: sess.Login(context.Background(), creds)}
	}
}

// registerCmd runs the register request off the update loop.
func (m Model) registerCmd(creds model.RegisterCredentials) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		return AuthResultMsg{Err: sess.Register(context.Background(), creds)}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	title := "Sign in to parley"
	if m.mode == ModeRegister {
		title = "Create your parley account"
	}
	b.WriteString(m.theme.FormTitle.Render(title))
	b.WriteString("\n\n")

	if m.mode == ModeRegister {
		b.WriteString(m.theme.FormLabel.Render("Username"))
		b.WriteString("\n")
		b.WriteString(m.inputs[fieldUsername].View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.theme.FormLabel.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldEmail].View())
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldPassword].View())
	b.WriteString("\n\n")

	switch {
	case m.submitting:
		b.WriteString(m.spinner.View() + " Signing in...")
	case m.errMsg != "":
		b.WriteString(m.theme.FormError.Render(m.errMsg))
	default:
		hint := "enter submit · ctrl+t create account · ctrl+c quit"
		if m.mode == ModeRegister {
			hint = "enter submit · ctrl+t sign in · ctrl+c quit"
		}
		b.WriteString(m.theme.FormHint.Render(hint))
	}

	box := m.theme.FormBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
