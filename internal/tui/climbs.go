package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"climbcheck/internal/analysis"
	"climbcheck/internal/catalog"
	"climbcheck/internal/service"
)

// ClimbsModel is the climb list screen model
type ClimbsModel struct {
	climbService *service.ClimbService
	units        Units
	filter       service.Filter
	climbs       []analysis.EnrichedClimb
	status       catalog.Status
	cursor       int
	offset       int
	pageSize     int
	searching    bool
	search       textinput.Model
}

// NewClimbsModel creates a new climbs model
func NewClimbsModel(cs *service.ClimbService, units Units) ClimbsModel {
	search := textinput.New()
	search.Placeholder = "name or location"
	search.Prompt = "/ "
	search.CharLimit = 64

	m := ClimbsModel{
		climbService: cs,
		units:        units,
		pageSize:     15,
		search:       search,
	}
	m.refresh()
	return m
}

// Init initializes the climbs screen
func (m ClimbsModel) Init() tea.Cmd {
	return nil
}

// claims reports whether keys go to the search box
func (m ClimbsModel) claims(tea.KeyMsg) bool {
	return m.searching
}

// refresh re-runs the query against the current snapshot
func (m *ClimbsModel) refresh() {
	m.status = m.climbService.Status()
	m.filter.Search = m.search.Value()
	m.climbs = m.climbService.Query(m.filter)

	if m.cursor >= len(m.climbs) {
		m.cursor = max(0, len(m.climbs)-1)
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.pageSize {
		m.offset = m.cursor - m.pageSize + 1
	}
}

// Update handles messages
func (m ClimbsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.refresh()

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.climbs)-1 {
				m.cursor++
			}
		case "pgup":
			m.cursor = max(0, m.cursor-m.pageSize)
		case "pgdown":
			m.cursor = max(0, min(len(m.climbs)-1, m.cursor+m.pageSize))
		case "/":
			m.searching = true
			cmd := m.search.Focus()
			return m, cmd
		case "f":
			m.filter.Suitability = nextTier(m.filter.Suitability)
			m.cursor, m.offset = 0, 0
		case "o":
			m.filter.Sort = m.filter.Sort.Next()
			m.cursor, m.offset = 0, 0
		case "esc":
			m.search.SetValue("")
			m.filter.Suitability = nil
		case "enter":
			if len(m.climbs) > 0 && m.cursor < len(m.climbs) {
				name := m.climbs[m.cursor].Name
				return m, func() tea.Msg {
					return OpenClimbDetailMsg{Name: name}
				}
			}
		}
		m.refresh()
	}
	return m, nil
}

func (m ClimbsModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor, m.offset = 0, 0
	m.refresh()
	return m, cmd
}

// nextTier cycles all → Friendly → Challenging → Brutal → all
func nextTier(current *analysis.Suitability) *analysis.Suitability {
	var next analysis.Suitability
	switch {
	case current == nil:
		next = analysis.Friendly
	case *current == analysis.Brutal:
		return nil
	default:
		next = *current + 1
	}
	return &next
}

// View renders the climb list
func (m ClimbsModel) View() string {
	switch m.status.State {
	case catalog.StateIdle, catalog.StateLoading:
		return "\n  Loading climbs..."
	case catalog.StateError:
		return errorStyle.Render(fmt.Sprintf("\n  Error: %s", m.status.Message)) +
			statusStyle.Render("\n  Import a catalogue with: climbcheck import climbs.csv")
	}

	var sections []string

	tier := "all tiers"
	if m.filter.Suitability != nil {
		tier = m.filter.Suitability.String()
	}
	title := cardTitleStyle.Render(fmt.Sprintf("Climbs (%d)  ·  %s  ·  sorted by %s", len(m.climbs), tier, m.filter.Sort))
	sections = append(sections, title)

	if m.searching || m.search.Value() != "" {
		sections = append(sections, "  "+m.search.View())
	}

	if len(m.climbs) == 0 {
		sections = append(sections, "\n  No climbs match.")
		sections = append(sections, m.renderHelp())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	dist := "Dist " + m.units.DistanceLabel()
	header := tableHeaderStyle.Render(fmt.Sprintf("  %-24s  %-14s  %8s  %5s  %5s  %8s  %-11s  %6s",
		"Name", "Location", dist, "Avg%", "Max%", "Time", "Suitability", "Effort"))
	sections = append(sections, header)

	end := min(len(m.climbs), m.offset+m.pageSize)
	for i := m.offset; i < end; i++ {
		c := m.climbs[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		burst := ""
		if c.BurstWarningRatio != nil {
			burst = " !"
		}

		row := fmt.Sprintf("%s%-24s  %-14s  %8s  %5.1f  %5.1f  %8s  ",
			cursor,
			truncateName(c.Name, 24),
			truncateName(c.Location, 14),
			m.units.FormatDistanceValue(c.Climb.DistanceKm),
			c.Climb.AvgGradientPct,
			c.Climb.MaxGradientPct,
			analysis.FormatDuration(c.ClimbTimeSeconds),
		)
		effort := fmt.Sprintf("%5.0f%%%s", c.DifficultyRatio()*100, burst)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row+fmt.Sprintf("%-11s  ", c.Suitability)+effort))
		} else {
			sections = append(sections, tableRowStyle.Render(row+RenderSuitability(c.Suitability, 11)+"  "+effort))
		}
	}

	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ClimbsModel) renderHelp() string {
	if m.searching {
		return statusStyle.Render("\n  type to search  enter: keep  esc: clear")
	}
	return statusStyle.Render("\n  enter: details  j/k: navigate  /: search  f: filter tier  o: sort  esc: clear  (! = burst warning)")
}

// OpenClimbDetailMsg asks the app to open the detail screen
type OpenClimbDetailMsg struct {
	Name string
}
