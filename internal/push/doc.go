// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package push maintains the persistent websocket connection over which
// the backend delivers live events (messages, typing, presence).
//
// Events travel as JSON envelopes {"event": name, "data": payload} in
// both directions. Outbound signals are fire-and-forget: Emit on a
// disconnected socket is a silent no-op, matching the best-effort
// contract of the live channel. Inbound events fan out to subscribers
// registered with Subscribe, which returns an explicit handle whose
// Cancel method removes the subscription; there is no removal by
// handler identity.
//
// Handlers run on the socket's read goroutine. Callers that mutate UI
// state must forward the payload onto their own loop (the TUI does this
// with tea.Program.Send).
package push
