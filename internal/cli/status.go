// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/parley-chat/parley/internal/config"
	"github.com/parley-chat/parley/internal/storage"
)

// statusProbeTimeout bounds the reachability check so status stays
// snappy when the server is down.
const statusProbeTimeout = 3 * time.Second

// RunStatus prints the effective configuration, whether credentials
// are stored, and whether the server answers.
func RunStatus(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Println("parley", Version)
	fmt.Println()
	fmt.Printf("  server:  %s\n", cfg.Server.BaseURL)
	fmt.Printf("  socket:  %s\n", cfg.Server.SocketURL)
	fmt.Printf("  theme:   %s\n", cfg.UI.Theme)

	creds, err := storage.NewFileCredentialStore()
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	if saved, err := creds.Load(); err == nil {
		fmt.Printf("  session: %s (saved %s)\n", saved.User.DisplayName(), saved.SavedAt.Format("2006-01-02 15:04"))
	} else {
		fmt.Println("  session: not signed in")
	}

	if err := probeServer(cfg.Server.BaseURL); err != nil {
		fmt.Printf("  backend: unreachable (%v)\n", err)
	} else {
		fmt.Println("  backend: reachable")
	}
	return nil
}

// probeServer checks that the API answers HTTP at all. Any status code
// counts; only transport errors mean unreachable.
func probeServer(baseURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), statusProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
