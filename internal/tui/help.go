package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	sections = append(sections, m.renderSection("Navigation", []keyHelp{
		{"1", "Climb list"},
		{"2", "Rider profile"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	}))

	sections = append(sections, m.renderSection("Climb List", []keyHelp{
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"pgdn / pgup", "Next / previous page"},
		{"/", "Search by name or location"},
		{"f", "Cycle suitability filter"},
		{"o", "Cycle sort order"},
		{"enter", "Open climb details"},
		{"esc", "Clear search and filter"},
	}))

	sections = append(sections, m.renderSection("Climb Details", []keyHelp{
		{"j / k", "Scroll"},
		{"r", "Reload"},
	}))

	sections = append(sections, m.renderSection("Rider Profile", []keyHelp{
		{"tab / down", "Next field"},
		{"shift+tab / up", "Previous field"},
		{"enter", "Save and re-rate climbs"},
		{"ctrl+r", "Revert edits"},
	}))

	sections = append(sections, m.renderMetricsHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderMetricsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("Metrics Explained"))
	lines = append(lines, "")

	metrics := []struct {
		name string
		desc string
	}{
		{"Minimum speed", "Speed in your lowest gear at minimum cadence. You cannot ride slower without stalling."},
		{"Average power", "Power to hold minimum speed at the climb's average gradient."},
		{"Sustained effort", "Power ratio for the steepest gradient you ride for at least 200 m."},
		{"Peak power", "Power at the climb's maximum gradient."},
		{"Friendly", "Effort at or below 85% of FTP."},
		{"Challenging", "Effort between 85% and 105% of FTP."},
		{"Brutal", "Effort above 105% of FTP. Consider lower gearing."},
		{"Burst warning (!)", "The steepest section needs more than 120% of FTP."},
	}

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+helpDescStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
