// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"
)

// Version information (overridden at build time with -ldflags).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds the parsed command line.
type Args struct {
	Command Command

	// Config subcommand: get <key>, set <key> <value>, list, path
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Global flags
	Debug bool
}

const usageText = `parley - a terminal chat client

Usage:
  parley                     Start the chat TUI (default)
  parley status, s           Show configuration and server reachability
  parley config list         List all configuration keys
  parley config get <key>    Print one configuration value
  parley config set <key> <value>  Write one configuration value
  parley config path         Print the config file location
  parley version, -v         Print version information
  parley help, -h            Show this help

Flags:
  --debug                    Log Bubble Tea events to parley-debug.log

Environment:
  PARLEY_SERVER              Override the API base URL
  PARLEY_SOCKET              Override the push channel URL
  PARLEY_THEME               Override the theme (dark, light)
  PARLEY_TIMEOUT             Override the request timeout (seconds)

Keys (in the TUI):
  tab          Cycle focus between rooms, users and input
  enter        Select room / open conversation / send message
  ctrl+n       Create a room
  ctrl+r       Refresh rooms and users
  ctrl+l       Log out
  ctrl+c       Quit
`

// Parse turns os.Args[1:] into an Args value. Unknown commands come
// back as an error so main can print usage and exit non-zero.
func Parse(raw []string) (Args, error) {
	parser := NewArgParser(raw)
	args := Args{Debug: parser.BoolFlag("debug")}

	switch parser.Subcommand() {
	case "":
		args.Command = CmdTUI

	case "status", "s":
		args.Command = CmdStatus

	case "config":
		args.Command = CmdConfig
		args.Subcommand = parser.Positional(1)
		args.ConfigKey = parser.Positional(2)
		args.ConfigVal = parser.Positional(3)

	case "version":
		args.Command = CmdVersion

	case "help":
		args.Command = CmdHelp

	default:
		return args, fmt.Errorf("unknown command: %s", parser.Subcommand())
	}

	// Flag spellings of version/help.
	if parser.BoolFlag("version") || parser.BoolFlag("v") {
		args.Command = CmdVersion
	}
	if parser.BoolFlag("help") || parser.BoolFlag("h") {
		args.Command = CmdHelp
	}

	return args, nil
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes build information to stdout.
func PrintVersion() {
	fmt.Printf("parley %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
