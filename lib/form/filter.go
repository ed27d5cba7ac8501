// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/akgerber/cappa/lib/command"
	"github.com/akgerber/cappa/lib/tui"
)

// FilterModel implements fzf-style substring matching across the
// searchable parts of an argument: its value name, flag spellings,
// help text, and choice values. The filter narrows the field list
// without discarding the values already typed into hidden fields.
type FilterModel struct {
	// Input is the current filter query text.
	Input string

	// Active is true when the filter input has keyboard focus
	// (the user pressed / to start typing).
	Active bool
}

// MatchesArg returns true if the argument matches the current filter.
// An empty filter matches everything. Matching is case-insensitive
// substring against each searchable field — if any field contains
// the query, the argument matches.
func (filter *FilterModel) MatchesArg(arg *command.Arg) bool {
	if filter.Input == "" {
		return true
	}

	query := strings.ToLower(filter.Input)

	// Match against the value name.
	if strings.Contains(strings.ToLower(arg.ValueName), query) {
		return true
	}

	// Match against flag spellings.
	for _, name := range arg.Names() {
		if strings.Contains(strings.ToLower(name), query) {
			return true
		}
	}

	// Match against help text.
	if strings.Contains(strings.ToLower(arg.Help), query) {
		return true
	}

	// Match against choice values.
	for _, choice := range arg.Choices {
		if strings.Contains(strings.ToLower(choice), query) {
			return true
		}
	}

	return false
}

// HandleRune processes a character typed while the filter is active.
// Returns true if the input changed.
func (filter *FilterModel) HandleRune(character rune) bool {
	filter.Input += string(character)
	return true
}

// HandleBackspace removes the last character from the filter input.
// Returns true if the input changed.
func (filter *FilterModel) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the filter input and deactivates it.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar. When active, shows the input with a
// cursor. When inactive with text, shows the filter text. When
// inactive with no text, returns empty string (hidden).
func (filter *FilterModel) View(theme tui.Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(theme.NormalText).
		Width(width)

	if filter.Active {
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return style.Render(" / " + filter.Input + cursor)
	}

	// Inactive but has text — show the filter as a subtle indicator.
	dimStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width)
	return dimStyle.Render(" filter: " + filter.Input)
}
