// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// parley - a terminal chat client.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/parley-chat/parley/internal/api"
	"github.com/parley-chat/parley/internal/cli"
	"github.com/parley-chat/parley/internal/config"
	"github.com/parley-chat/parley/internal/model"
	"github.com/parley-chat/parley/internal/push"
	"github.com/parley-chat/parley/internal/rooms"
	"github.com/parley-chat/parley/internal/session"
	"github.com/parley-chat/parley/internal/storage"
	"github.com/parley-chat/parley/internal/ui/chat"
	"github.com/parley-chat/parley/internal/ui/login"
	"github.com/parley-chat/parley/internal/ui/styles"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		cli.PrintUsage()
		os.Exit(2)
	}

	switch args.Command {
	case cli.CmdTUI:
		if err := runTUI(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdStatus:
		if err := cli.RunStatus(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdConfig:
		if err := cli.RunConfig(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// =============================================================================
// TUI COMPOSITION
// =============================================================================

// runTUI wires the stores together and runs the program.
func runTUI(args cli.Args) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if args.Debug || os.Getenv("PARLEY_DEBUG") != "" {
		f, err := tea.LogToFile("parley-debug.log", "parley")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.Server.BaseURL,
		Timeout: time.Duration(cfg.Server.TimeoutSecs) * time.Second,
	})
	socket := push.NewSocketWithConfig(&push.Config{URL: cfg.Server.SocketURL})

	creds, err := storage.NewFileCredentialStore()
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}

	sess := session.NewStore(client, socket, creds)
	store := rooms.NewStore(client, socket)
	store.SetPageSize(cfg.UI.MessagePageSize)

	// Try the stored token before showing any screen. A stale token is
	// the normal "please sign in" path, not an error.
	restoreCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	restoreErr := sess.Restore(restoreCtx)
	cancel()
	if restoreErr != nil && !errors.Is(restoreErr, session.ErrNoSession) && !api.IsUnauthorized(restoreErr) {
		fmt.Fprintf(os.Stderr, "Warning: could not restore session: %v\n", restoreErr)
	}

	theme := styles.NewTheme()
	app := newAppModel(theme, sess, store, socket)

	program := tea.NewProgram(app, tea.WithAltScreen())
	bridgePushEvents(program, socket)
	defer socket.Disconnect()

	_, err = program.Run()
	return err
}

// bridgePushEvents forwards socket events onto the update loop. The
// handlers run on the socket's read goroutine, so they only decode and
// hand off.
func bridgePushEvents(program *tea.Program, socket *push.Socket) {
	socket.Subscribe(push.EventMessageReceived, func(data json.RawMessage) {
		var msg model.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		program.Send(chat.IncomingMessageMsg{Message: msg})
	})

	socket.Subscribe(push.EventUserTyping, func(data json.RawMessage) {
		var ev model.TypingEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		program.Send(chat.TypingEventMsg{Event: ev})
	})

	socket.Subscribe(push.EventUserJoined, func(data json.RawMessage) {
		var ev model.PresenceEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		program.Send(chat.PresenceMsg{Event: ev, Joined: true})
	})

	socket.Subscribe(push.EventUserLeft, func(data json.RawMessage) {
		var ev model.PresenceEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		program.Send(chat.PresenceMsg{Event: ev, Joined: false})
	})

	socket.Subscribe(push.EventRoomJoined, func(data json.RawMessage) {
		var ev model.RoomJoinedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		program.Send(chat.RoomJoinedMsg{RoomID: ev.RoomID})
	})

	socket.Subscribe(push.EventError, func(data json.RawMessage) {
		var ev model.ErrorEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		program.Send(chat.PushErrorMsg{Message: ev.Message})
		if !socket.IsConnected() {
			program.Send(chat.ConnectionMsg{Connected: false})
		}
	})
}

// =============================================================================
// APP MODEL
// =============================================================================

// screen is the top-level screen the app is showing.
type screen int

const (
	screenLogin screen = iota
	screenChat
)

// appModel switches between the auth and chat screens. It owns nothing
// beyond the switch: each screen talks to its stores directly.
type appModel struct {
	theme   *styles.Theme
	session *session.Store
	store   *rooms.Store
	socket  *push.Socket

	screen screen
	login  login.Model
	chat   chat.Model

	width  int
	height int
}

// newAppModel picks the starting screen based on the restored session.
func newAppModel(theme *styles.Theme, sess *session.Store, store *rooms.Store, socket *push.Socket) appModel {
	app := appModel{
		theme:   theme,
		session: sess,
		store:   store,
		socket:  socket,
		login:   login.New(theme, sess),
	}
	if sess.IsAuthenticated() {
		app.screen = screenChat
		app.store.SetSelf(sess.CurrentUser())
		app.chat = chat.New(theme, sess, store)
	}
	return app
}

// Init implements tea.Model.
func (a appModel) Init() tea.Cmd {
	if a.screen == screenChat {
		return tea.Batch(a.chat.Init(), connectionStateCmd(a.socket))
	}
	return a.login.Init()
}

// Update implements tea.Model.
func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Both screens track the size so switches render correctly.
		var loginCmd, chatCmd tea.Cmd
		a.login, loginCmd = a.login.Update(msg)
		if a.screen == screenChat {
			a.chat, chatCmd = a.chat.Update(msg)
		}
		return a, tea.Batch(loginCmd, chatCmd)

	case tea.KeyMsg:
		if a.screen == screenLogin && msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case login.AuthResultMsg:
		if msg.Err == nil {
			return a.enterChat()
		}

	case chat.LogoutMsg:
		return a.enterLogin()
	}

	var cmd tea.Cmd
	if a.screen == screenChat {
		a.chat, cmd = a.chat.Update(msg)
	} else {
		a.login, cmd = a.login.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a appModel) View() string {
	if a.screen == screenChat {
		return a.chat.View()
	}
	return a.login.View()
}

// enterChat builds a fresh chat screen after authentication.
func (a appModel) enterChat() (tea.Model, tea.Cmd) {
	a.store.SetSelf(a.session.CurrentUser())
	a.chat = chat.New(a.theme, a.session, a.store)
	a.screen = screenChat

	var sizeCmd tea.Cmd
	if a.width > 0 {
		a.chat, sizeCmd = a.chat.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
	return a, tea.Batch(a.chat.Init(), connectionStateCmd(a.socket), sizeCmd)
}

// enterLogin tears the session down and returns to the auth screen.
func (a appModel) enterLogin() (tea.Model, tea.Cmd) {
	a.session.Logout()
	a.store.Reset()
	a.login = login.New(a.theme, a.session)
	a.screen = screenLogin

	var sizeCmd tea.Cmd
	if a.width > 0 {
		a.login, sizeCmd = a.login.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
	return a, tea.Batch(a.login.Init(), sizeCmd)
}

// connectionStateCmd reports the socket state to the chat screen.
func connectionStateCmd(socket *push.Socket) tea.Cmd {
	return func() tea.Msg {
		return chat.ConnectionMsg{Connected: socket.IsConnected()}
	}
}
