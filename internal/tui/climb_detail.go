package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"climbcheck/internal/analysis"
	"climbcheck/internal/service"
)

// ClimbDetailModel is the climb detail screen model
type ClimbDetailModel struct {
	climbService *service.ClimbService
	units        Units
	name         string
	detail       *service.ClimbDetail
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewClimbDetailModel creates a new climb detail model
func NewClimbDetailModel(cs *service.ClimbService, units Units, name string, width, height int) ClimbDetailModel {
	m := ClimbDetailModel{
		climbService: cs,
		units:        units,
		name:         name,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.ready = true
	}

	return m
}

// Init initializes the climb detail screen
func (m ClimbDetailModel) Init() tea.Cmd {
	return m.loadDetail
}

type climbDetailLoadedMsg struct {
	detail *service.ClimbDetail
	err    error
}

func (m ClimbDetailModel) loadDetail() tea.Msg {
	detail, err := m.climbService.Detail(m.name)
	return climbDetailLoadedMsg{detail: detail, err: err}
}

// Update handles messages
func (m ClimbDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case climbDetailLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.detail = msg.detail
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case snapshotMsg:
		// rider or catalogue changed underneath us
		return m, m.loadDetail

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.detail != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.loadDetail
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the climb detail screen
func (m ClimbDetailModel) View() string {
	if m.loading {
		return "\n  Loading climb..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  esc: back to list  j/k or arrows: scroll  r: refresh")
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ClimbDetailModel) renderContent() string {
	if m.detail == nil {
		return "No data"
	}

	sections := []string{
		m.renderHeader(),
		m.renderEffort(),
		m.renderHistogram(),
	}
	if len(m.detail.Elevation) > 2 {
		sections = append(sections, m.renderElevationChart())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ClimbDetailModel) renderHeader() string {
	e := m.detail.Climb
	c := e.Climb

	title := cardTitleStyle.Render(e.Name)
	subtitle := lipgloss.NewStyle().Foreground(mutedColor).Render(e.Location)

	stats := fmt.Sprintf("%s  •  %s ascent  •  avg %.1f%%  •  max %.1f%%",
		m.units.FormatDistance(c.DistanceKm), m.units.FormatElevation(c.TotalAscentMeters),
		c.AvgGradientPct, c.MaxGradientPct)
	statsLine := lipgloss.NewStyle().Foreground(textColor).Bold(true).Render(stats)

	tier := suitabilityStyle(e.Suitability).Bold(true).Render(e.Suitability.String()) +
		"  " + helpDescStyle.Render(e.Suitability.Description())

	return lipgloss.JoinVertical(lipgloss.Left, "", title, subtitle, statsLine, "", tier, "")
}

func (m ClimbDetailModel) renderEffort() string {
	e := m.detail.Climb
	lines := []string{sectionStyle.Render("Effort at minimum cadence")}

	lines = append(lines,
		"  "+RenderMetric("Minimum speed", m.units.FormatSpeed(e.MinSpeedMps)),
		"  "+RenderMetric("Climb time", analysis.FormatDuration(e.ClimbTimeSeconds)),
		"  "+RenderMetric("Average power", fmt.Sprintf("%.0f W  (%.0f%% FTP)", e.AveragePowerWatts, e.AverageFtpRatio*100)),
		"  "+RenderMetric("Sustained effort", fmt.Sprintf("%.0f%% FTP", e.SustainedFtpRatio*100)),
		"  "+RenderMetric("Peak power", fmt.Sprintf("%.0f W  (%.0f%% FTP)", e.PeakPowerWatts, e.PeakFtpRatio*100)),
	)

	if e.BurstWarningRatio != nil {
		lines = append(lines, "", "  "+warningStyle.Bold(true).Render(
			fmt.Sprintf("Burst warning: the steepest section needs %.0f%% of FTP", *e.BurstWarningRatio*100)))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ClimbDetailModel) renderHistogram() string {
	lines := []string{sectionStyle.Render(fmt.Sprintf("Distance at or above gradient (%s)", m.units.DistanceLabel()))}

	const barWidth = 30
	for _, bar := range m.detail.Histogram {
		if bar.DistanceKm <= 0 {
			continue
		}
		label := fmt.Sprintf("  ≥%2d%%  ", bar.Threshold)
		value := fmt.Sprintf(" %5s %s (%3.0f%%)", m.units.FormatDistanceValue(bar.DistanceKm), m.units.DistanceLabel(), bar.Percent)
		lines = append(lines, label+RenderProgressBar(bar.Percent/100, barWidth)+value)
	}
	if len(lines) == 1 {
		lines = append(lines, helpDescStyle.Render("  No gradient breakdown in the catalogue"))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ClimbDetailModel) renderElevationChart() string {
	lines := []string{sectionStyle.Render(fmt.Sprintf("Elevation profile (%s)", m.units.ElevationLabel()))}

	data := make([]float64, len(m.detail.Elevation))
	for i, s := range m.detail.Elevation {
		data[i] = m.units.ElevationValue(s.Ele)
	}

	width := 60
	if m.width > 20 && m.width-14 < width {
		width = m.width - 14
	}
	chart := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Precision(0),
	)
	lines = append(lines, chart)

	last := m.detail.Elevation[len(m.detail.Elevation)-1]
	lines = append(lines, helpDescStyle.Render(fmt.Sprintf("  0 – %s", m.units.FormatDistance(last.DistanceKm))))

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}
