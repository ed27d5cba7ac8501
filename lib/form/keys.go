// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package form

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the form TUI.
type KeyMap struct {
	// Navigation (context-sensitive: command tree or field list
	// depending on current focus).
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding

	// Focus switching between the command tree and the field list.
	FocusToggle key.Binding

	// Field editing.
	Edit   key.Binding // Open the control for the selected field.
	Toggle key.Binding // Flip a flag / tick a choice / bump a counter.
	Clear  key.Binding // Reset the selected field to unset.

	// Filter.
	FilterActivate key.Binding // Enter filter mode.
	FilterClear    key.Binding // Clear filter and exit filter mode.

	// Accept the form and hand back the composed command line.
	Accept key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch pane"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "edit"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "toggle"),
	),
	Clear: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("BS", "clear"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	Accept: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "run"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
