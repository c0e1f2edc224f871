// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the chat backend's REST API.
//
// The client holds the current bearer token and attaches it to every
// request. All responses are enveloped as {"success", "data", "message"};
// the client unwraps the envelope and returns the decoded data, or a
// *ClientError carrying the server-supplied message on failure.
//
// Errors are categorized by ErrorType so callers can branch on the
// failure class without string matching:
//
//	user, err := client.Login(ctx, creds)
//	if api.IsUnauthorized(err) {
//	    // bad credentials
//	}
package api
