// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the command form UI. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Schema semantics.
	FlagName       lipgloss.Color // Flag spellings (--output, -v).
	RequiredMarker lipgloss.Color // Asterisk next to required fields.
	FilledValue    lipgloss.Color // Values the user has set.
	ErrorText      lipgloss.Color // Validation failures.

	// The command preview line at the bottom of the form.
	PreviewCommand lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	FocusBorderColor lipgloss.Color
	HelpText         lipgloss.Color

	// Filter match highlighting.
	SearchHighlightBackground lipgloss.Color

	// Overlay boxes (dropdowns, tooltips).
	TooltipForeground lipgloss.Color
	TooltipBackground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background (the common case for
// development environments and tmux sessions).
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	FlagName:       lipgloss.Color("75"),  // blue
	RequiredMarker: lipgloss.Color("196"), // bright red
	FilledValue:    lipgloss.Color("114"), // green
	ErrorText:      lipgloss.Color("196"),

	PreviewCommand: lipgloss.Color("220"), // amber

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	FocusBorderColor: lipgloss.Color("75"),
	HelpText:         lipgloss.Color("241"),

	SearchHighlightBackground: lipgloss.Color("58"), // dark amber

	TooltipForeground: lipgloss.Color("252"),
	TooltipBackground: lipgloss.Color("237"),
}
