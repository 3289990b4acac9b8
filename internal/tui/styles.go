package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"climbcheck/internal/analysis"
)

// Colors
var (
	accentColor      = lipgloss.Color("#0EA5E9") // Sky
	friendlyColor    = lipgloss.Color("#22C55E") // Green
	challengingColor = lipgloss.Color("#F59E0B") // Amber
	brutalColor      = lipgloss.Color("#EF4444") // Red
	mutedColor       = lipgloss.Color("#6B7280") // Gray
	textColor        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(accentColor).
			Padding(0, 1).
			MarginBottom(1)

	// Navigation
	navStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginBottom(1)

	navActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	navInactiveStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(friendlyColor)

	// Metrics
	metricLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(22)

	metricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(textColor)

	// Table
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				BorderBottom(true).
				BorderForeground(mutedColor).
				Padding(0, 1)

	tableRowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	tableSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Background(accentColor).
				Foreground(textColor).
				Padding(0, 1)

	// Status
	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(brutalColor)

	successStyle = lipgloss.NewStyle().
			Foreground(friendlyColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(challengingColor)

	// Help
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Progress bar
	progressFullStyle = lipgloss.NewStyle().
				Foreground(friendlyColor)

	progressEmptyStyle = lipgloss.NewStyle().
				Foreground(mutedColor)
)

// suitabilityStyle colors a tier: green, amber, red
func suitabilityStyle(s analysis.Suitability) lipgloss.Style {
	switch s {
	case analysis.Friendly:
		return successStyle
	case analysis.Challenging:
		return warningStyle
	default:
		return errorStyle
	}
}

// RenderSuitability renders a tier label in its color, padded to width
func RenderSuitability(s analysis.Suitability, width int) string {
	return suitabilityStyle(s).Width(width).Render(s.String())
}

// RenderMetric renders a label and a value on one line
func RenderMetric(label, value string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		metricLabelStyle.Render(label),
		metricValueStyle.Render(value),
	)
}

// RenderProgressBar renders an ASCII progress bar
func RenderProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return progressFullStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RenderKeyHelp renders a key binding help item
func RenderKeyHelp(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpDescStyle.Render(desc)
}

// truncateName shortens s to n runes with an ellipsis
func truncateName(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
