// Copyright (c) 2025 Parley Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/parley-chat/parley/internal/ui/styles"
)

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusBar_Render(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.Username = "alice"
	bar.SetRoom("#general")
	bar.SetConnection(true)
	bar.SetWidth(120)

	out := bar.Render()
	if !strings.Contains(out, "#general") {
		t.Errorf("status bar missing room name: %q", out)
	}
	if !strings.Contains(out, "@alice") {
		t.Errorf("status bar missing username: %q", out)
	}
	if !strings.Contains(out, "live") {
		t.Errorf("status bar missing connection state: %q", out)
	}
}

func TestStatusBar_DisconnectedIndicator(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.SetConnection(false)
	bar.SetWidth(100)

	if !strings.Contains(bar.Render(), "offline") {
		t.Error("disconnected bar should say offline")
	}
}

func TestStatusBar_NarrowWidthDropsShortcuts(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.SetWidth(50)

	if strings.Contains(bar.Render(), "logout") {
		t.Error("shortcuts should be hidden below 80 columns")
	}
}

func TestStatus_Strings(t *testing.T) {
	testCases := []struct {
		status Status
		want   string
	}{
		{StatusReady, "Ready"},
		{StatusLoading, "Loading..."},
		{StatusError, "Error"},
		{Status(99), "Unknown"},
	}
	for _, tc := range testCases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

// =============================================================================
// TOAST TESTS
// =============================================================================

func TestToastManager_AddAndCap(t *testing.T) {
	m := NewToastManager()

	m.AddError("one")
	m.AddStatus("two")
	m.AddSuccess("three")
	m.AddError("four")

	toasts := m.GetToasts()
	if len(toasts) != 3 {
		t.Fatalf("toast stack should be capped at 3, got %d", len(toasts))
	}
	// Newest first
	if toasts[0].Message != "four" {
		t.Errorf("newest toast should lead, got %q", toasts[0].Message)
	}
}

func TestToastManager_RemoveByID(t *testing.T) {
	m := NewToastManager()
	id := m.AddError("oops")
	m.AddStatus("fyi")

	m.RemoveToast(id)
	for _, toast := range m.GetToasts() {
		if toast.ID == id {
			t.Error("removed toast still present")
		}
	}

	// Removing an unknown ID is harmless.
	m.RemoveToast(999)
}

func TestToastManager_TickExpires(t *testing.T) {
	m := NewToastManager()
	expired := NewStatusToast("old")
	expired.CreatedAt = time.Now().Add(-time.Minute)
	m.AddToast(expired)
	m.AddStatus("fresh")

	remaining := m.TickToasts()
	if len(remaining) != 1 || remaining[0].Message != "fresh" {
		t.Errorf("tick should drop only expired toasts, got %+v", remaining)
	}
}

func TestToastManager_Clear(t *testing.T) {
	m := NewToastManager()
	m.AddError("a")
	m.AddError("b")
	m.Clear()
	if m.HasToasts() {
		t.Error("Clear should empty the stack")
	}
}

func TestRenderToastStack(t *testing.T) {
	theme := styles.NewTheme()

	if out := RenderToastStack(theme, nil, 80); out != "" {
		t.Errorf("empty stack should render empty, got %q", out)
	}

	toasts := []Toast{NewErrorToast("send failed"), NewStatusToast("reconnected")}
	out := RenderToastStack(theme, toasts, 80)
	if !strings.Contains(out, "send failed") || !strings.Contains(out, "reconnected") {
		t.Errorf("stack missing toast text: %q", out)
	}
}

func TestWrapToastText(t *testing.T) {
	out := wrapToastText("a message that is definitely longer than the limit", 12)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 12+len(" definitely") {
			t.Errorf("line too long: %q", line)
		}
	}
	if wrapToastText("", 10) != "" {
		t.Error("empty text should stay empty")
	}
}
