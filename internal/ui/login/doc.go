// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the authentication screens for the parley TUI.
//
// One model serves both the sign-in and the create-account form;
// ctrl+t flips between them. Submission runs through the session
// store, and the result comes back as an AuthResultMsg that the app
// model uses to switch to the chat screen.
package login
