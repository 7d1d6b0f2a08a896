// Package tui renders the interactive book browser.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette - modern dark theme
var (
	primaryColor = lipgloss.Color("#7C3AED") // Purple
	accentColor  = lipgloss.Color("#06B6D4") // Cyan
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#EF4444") // Red
	textColor    = lipgloss.Color("#F9FAFB") // White
	dimColor     = lipgloss.Color("#9CA3AF") // Light gray
	mutedColor   = lipgloss.Color("#6B7280") // Gray
	borderColor  = lipgloss.Color("#374151") // Border
	surfaceColor = lipgloss.Color("#1F2937") // Surface background
)

const (
	iconFavorite = "★"
	iconPlain    = "☆"
	iconSearch   = "⌕"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	searchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	searchActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1)

	bookStyle = lipgloss.NewStyle().
			Foreground(textColor).
			PaddingLeft(2)

	selectedBookStyle = lipgloss.NewStyle().
				Foreground(textColor).
				Background(surfaceColor).
				Bold(true).
				PaddingLeft(2)

	favoriteStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	priceStyle = lipgloss.NewStyle().
			Foreground(successColor)

	metaStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	emptyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			Padding(1, 2)
)

// Toast styles keyed by severity.
var (
	toastInfoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Foreground(textColor).
			Padding(0, 1)

	toastSuccessStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(successColor).
				Foreground(textColor).
				Padding(0, 1)

	toastWarningStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(warningColor).
				Foreground(textColor).
				Padding(0, 1)

	toastErrorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Foreground(textColor).
			Padding(0, 1)
)
