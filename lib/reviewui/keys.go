// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the key bindings. Mouse gestures are the primary
// interaction; the bindings mirror them for keyboard-only terminals.
type KeyMap struct {
	Up               key.Binding
	Down             key.Binding
	PageUp           key.Binding
	PageDown         key.Binding
	ToggleAudited    key.Binding
	ToggleIrrelevant key.Binding
	Quit             key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	ToggleAudited: key.NewBinding(
		key.WithKeys("a", "enter"),
		key.WithHelp("a/click", "toggle audited"),
	),
	ToggleIrrelevant: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x/right-click", "toggle irrelevant"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
