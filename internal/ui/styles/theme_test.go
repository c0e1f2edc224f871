// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme_StylesConfigured(t *testing.T) {
	theme := NewTheme()

	// Spot-check that the load-bearing styles render without panicking
	// and actually carry content through.
	checks := map[string]string{
		"sidebar item":  theme.SidebarItem.Render("general"),
		"selected item": theme.SidebarSelected.Render("general"),
		"own author":    theme.OwnAuthor.Render("alice"),
		"other author":  theme.OtherAuthor.Render("bob"),
		"typing line":   theme.TypingLine.Render("bob is typing..."),
		"unread badge":  theme.UnreadBadge.Render("3"),
		"form error":    theme.FormError.Render("Invalid credentials"),
	}

	for name, rendered := range checks {
		if rendered == "" {
			t.Errorf("%s rendered empty", name)
		}
	}
}

func TestTheme_SetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("SetSize not recorded: %dx%d", theme.Width, theme.Height)
	}
}

func TestRenderHelpers_IncludeShape(t *testing.T) {
	testCases := []struct {
		name  string
		fn    func(string) string
		shape string
	}{
		{"success", RenderSuccess, StatusIndicators.Success},
		{"error", RenderError, StatusIndicators.Error},
		{"warning", RenderWarning, StatusIndicators.Warning},
		{"info", RenderInfo, StatusIndicators.Info},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := tc.fn("message")
			if !strings.Contains(out, tc.shape) {
				t.Errorf("%s output missing shape %q: %q", tc.name, tc.shape, out)
			}
			if !strings.Contains(out, "message") {
				t.Errorf("%s output missing message text: %q", tc.name, out)
			}
		})
	}
}
