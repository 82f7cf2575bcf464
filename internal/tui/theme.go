package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the TUI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText    lipgloss.Color
	FaintText     lipgloss.Color
	CompletedText lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	HelpText         lipgloss.Color

	// Error banner.
	ErrorForeground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	CompletedText:      lipgloss.Color("241"),
	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),
	HeaderForeground:   lipgloss.Color("81"),
	HelpText:           lipgloss.Color("240"),
	ErrorForeground:    lipgloss.Color("203"),
}
