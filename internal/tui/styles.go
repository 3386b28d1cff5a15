package tui

import "github.com/charmbracelet/lipgloss"

// ANSI 256 palette. Green and red carry the file outcome; everything else
// stays in blue and grays so a long review list remains readable.
var (
	colorAccent  = lipgloss.Color("39")
	colorPath    = lipgloss.Color("245")
	colorFaint   = lipgloss.Color("240")
	colorWritten = lipgloss.Color("34")
	colorWarning = lipgloss.Color("214")
	colorFailed  = lipgloss.Color("196")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1)

	// SelectedStyle marks the cursor row of the review list.
	SelectedStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(colorPath)

	// OverflowStyle renders the "… N more" line under a scrolled list.
	OverflowStyle = lipgloss.NewStyle().
			Foreground(colorFaint).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorWritten)

	// LayoutOnlyStyle is for files whose rewrite only moved whitespace or
	// letter case.
	LayoutOnlyStyle = lipgloss.NewStyle().
			Foreground(colorWritten).
			Faint(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorFailed)

	WarningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorFaint).
			MarginTop(1)
)

const (
	SymbolCheck      = "✓"
	SymbolCross      = "✗"
	SymbolArrowRight = "→"
	SymbolBullet     = "•"
	SymbolLayout     = "≈" // updated, layout only
)
