// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LineEditor is a single-line text input with cursor tracking, used
// for free-form argument values. Rendered inline in the form row
// rather than as a modal.
type LineEditor struct {
	runes  []rune
	cursor int
	theme  Theme
}

// NewLineEditor creates an editor pre-filled with the current value,
// cursor at the end.
func NewLineEditor(value string, theme Theme) LineEditor {
	runes := []rune(value)
	return LineEditor{
		runes:  runes,
		cursor: len(runes),
		theme:  theme,
	}
}

// Value returns the current text content.
func (editor LineEditor) Value() string {
	return string(editor.runes)
}

// Update processes a key message for the editor.
func (editor *LineEditor) Update(message tea.KeyMsg) {
	switch message.Type {
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			editor.insertRune(character)
		}

	case tea.KeyBackspace:
		if editor.cursor > 0 {
			editor.runes = append(editor.runes[:editor.cursor-1], editor.runes[editor.cursor:]...)
			editor.cursor--
		}

	case tea.KeyDelete:
		if editor.cursor < len(editor.runes) {
			editor.runes = append(editor.runes[:editor.cursor], editor.runes[editor.cursor+1:]...)
		}

	case tea.KeyLeft:
		if editor.cursor > 0 {
			editor.cursor--
		}

	case tea.KeyRight:
		if editor.cursor < len(editor.runes) {
			editor.cursor++
		}

	case tea.KeyHome, tea.KeyCtrlA:
		editor.cursor = 0

	case tea.KeyEnd, tea.KeyCtrlE:
		editor.cursor = len(editor.runes)

	case tea.KeyCtrlU:
		editor.runes = editor.runes[:0]
		editor.cursor = 0
	}
}

// insertRune inserts a single rune at the cursor position.
func (editor *LineEditor) insertRune(character rune) {
	line := make([]rune, len(editor.runes)+1)
	copy(line, editor.runes[:editor.cursor])
	line[editor.cursor] = character
	copy(line[editor.cursor+1:], editor.runes[editor.cursor:])
	editor.runes = line
	editor.cursor++
}

// View renders the editor content with a reverse-video cursor cell.
func (editor LineEditor) View() string {
	textStyle := lipgloss.NewStyle().Foreground(editor.theme.NormalText)
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	if editor.cursor >= len(editor.runes) {
		return textStyle.Render(string(editor.runes)) + cursorStyle.Render(" ")
	}
	before := textStyle.Render(string(editor.runes[:editor.cursor]))
	atCursor := cursorStyle.Render(string(editor.runes[editor.cursor : editor.cursor+1]))
	after := textStyle.Render(string(editor.runes[editor.cursor+1:]))
	return before + atCursor + after
}
