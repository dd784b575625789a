// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the review TUI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Review glyphs.
	AuditedGlyph    lipgloss.Color
	IrrelevantGlyph lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	HelpText         lipgloss.Color
	ErrorText        lipgloss.Color

	// Aggregate counters in the header.
	AuditedCounter    lipgloss.Color
	IrrelevantCounter lipgloss.Color

	// Search term highlighting in question/answer cells.
	SearchHighlightBackground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	AuditedGlyph:    lipgloss.Color("220"), // amber star
	IrrelevantGlyph: lipgloss.Color("196"), // red cross

	HeaderForeground: lipgloss.Color("255"),
	HelpText:         lipgloss.Color("241"),
	ErrorText:        lipgloss.Color("196"),

	AuditedCounter:    lipgloss.Color("114"), // green
	IrrelevantCounter: lipgloss.Color("203"), // soft red

	SearchHighlightBackground: lipgloss.Color("58"), // dark amber tint
}
