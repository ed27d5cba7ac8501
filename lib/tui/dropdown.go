// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DropdownOption is a single selectable item in a dropdown overlay.
type DropdownOption struct {
	Label string // Display text shown in the dropdown.
	Value string // Token placed into the argument on selection.
}

// DropdownOverlay renders a floating choice menu anchored at a screen
// position, used for arguments with a fixed value set. It captures
// all keyboard input while open (up/down to navigate, enter to
// select, escape to dismiss); the form model owns the instance and
// routes input to it when one is active.
type DropdownOverlay struct {
	Options []DropdownOption
	Cursor  int
	AnchorX int // Screen X coordinate of the dropdown's top-left corner.
	AnchorY int // Screen Y coordinate of the dropdown's top-left corner.

	// Multi selection state, index-aligned with Options. Nil for
	// single-choice dropdowns.
	Checked []bool
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (dropdown *DropdownOverlay) MoveUp() {
	dropdown.Cursor--
	if dropdown.Cursor < 0 {
		dropdown.Cursor = len(dropdown.Options) - 1
	}
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (dropdown *DropdownOverlay) MoveDown() {
	dropdown.Cursor++
	if dropdown.Cursor >= len(dropdown.Options) {
		dropdown.Cursor = 0
	}
}

// Selected returns the currently highlighted option.
func (dropdown *DropdownOverlay) Selected() DropdownOption {
	return dropdown.Options[dropdown.Cursor]
}

// Toggle flips the checked state of the highlighted option. No-op for
// single-choice dropdowns.
func (dropdown *DropdownOverlay) Toggle() {
	if dropdown.Checked == nil {
		return
	}
	dropdown.Checked[dropdown.Cursor] = !dropdown.Checked[dropdown.Cursor]
}

// CheckedValues returns the values of all checked options in
// declaration order.
func (dropdown *DropdownOverlay) CheckedValues() []string {
	var values []string
	for index, checked := range dropdown.Checked {
		if checked {
			values = append(values, dropdown.Options[index].Value)
		}
	}
	return values
}

// Width returns the total visible width of the rendered dropdown in
// columns. This matches the width used by Render and is needed for
// anchoring against the right screen edge.
func (dropdown *DropdownOverlay) Width() int {
	maxLabelWidth := 0
	for _, option := range dropdown.Options {
		labelWidth := ansi.StringWidth(option.Label)
		if labelWidth > maxLabelWidth {
			maxLabelWidth = labelWidth
		}
	}
	// Layout: " > LABEL " plus a checkbox column for multi-select.
	width := 3 + maxLabelWidth + 2
	if dropdown.Checked != nil {
		width += 4 // "[x] "
	}
	return width
}

// Height returns the number of rendered lines.
func (dropdown *DropdownOverlay) Height() int {
	return len(dropdown.Options)
}

// Render produces the dropdown lines for overlay splicing. Each line
// has the same visible width and a solid background for separation
// from the underlying form; the highlighted option uses a contrasting
// background.
func (dropdown *DropdownOverlay) Render(theme Theme) []string {
	totalWidth := dropdown.Width()
	innerWidth := totalWidth - 2

	backgroundStyle := lipgloss.NewStyle().
		Foreground(theme.TooltipForeground).
		Background(theme.TooltipBackground)
	selectedStyle := lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground)

	var lines []string
	for index, option := range dropdown.Options {
		marker := " "
		if index == dropdown.Cursor {
			marker = ">"
		}

		content := marker + " "
		if dropdown.Checked != nil {
			if dropdown.Checked[index] {
				content += "[x] "
			} else {
				content += "[ ] "
			}
		}
		content += option.Label

		contentWidth := ansi.StringWidth(content)
		if pad := innerWidth - contentWidth; pad > 0 {
			content += strings.Repeat(" ", pad)
		}

		style := backgroundStyle
		if index == dropdown.Cursor {
			style = selectedStyle
		}
		line := style.Render(" " + content + " ")

		// Keep every line at the same visible width.
		if lineWidth := ansi.StringWidth(line); lineWidth < totalWidth {
			line += style.Render(strings.Repeat(" ", totalWidth-lineWidth))
		}
		lines = append(lines, line)
	}

	return lines
}
