// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses the parley command line and runs the non-TUI
// commands.
//
// Running parley with no arguments starts the TUI; everything else is
// a small utility surface:
//
//	parley status          Show configuration and server reachability
//	parley config ...      Read and write the config file
//	parley version         Print build information
package cli
