package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"climbcheck/internal/service"
)

// Screen identifiers
type Screen int

const (
	ScreenClimbs Screen = iota
	ScreenDetail
	ScreenRider
	ScreenHelp
)

// snapshotMsg carries a service snapshot into the update loop
type snapshotMsg service.Snapshot

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	climbs ClimbsModel
	detail ClimbDetailModel
	rider  RiderModel
	help   HelpModel

	// Services
	climbService *service.ClimbService
	units        Units

	snapshots   chan service.Snapshot
	unsubscribe func()

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(cs *service.ClimbService, units Units) *App {
	a := &App{
		screen:       ScreenClimbs,
		climbService: cs,
		units:        units,
		climbs:       NewClimbsModel(cs, units),
		rider:        NewRiderModel(cs),
		help:         NewHelpModel(),
		snapshots:    make(chan service.Snapshot, 1),
	}

	a.unsubscribe = cs.Subscribe(func(s service.Snapshot) {
		// keep only the newest snapshot if the UI is behind
		select {
		case a.snapshots <- s:
		default:
			select {
			case <-a.snapshots:
			default:
			}
			select {
			case a.snapshots <- s:
			default:
			}
		}
	})

	return a
}

// Close detaches the app from the climb service
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

func (a *App) waitForSnapshot() tea.Msg {
	return snapshotMsg(<-a.snapshots)
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.climbs.Init(), a.waitForSnapshot)
}

// claimed reports whether the current screen types k into a text input
func (a *App) claimed(k tea.KeyMsg) bool {
	switch a.screen {
	case ScreenClimbs:
		return a.climbs.claims(k)
	case ScreenRider:
		return a.rider.claims(k)
	}
	return false
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			switch a.screen {
			case ScreenHelp:
				a.screen = a.prevScreen
				return a, nil
			case ScreenDetail, ScreenRider:
				a.screen = ScreenClimbs
				return a, nil
			}
		}

		// Global keybindings (unless a screen is typing the key)
		if !a.claimed(msg) {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				a.screen = ScreenClimbs
				return a, nil
			case "2":
				a.screen = ScreenRider
				a.rider = NewRiderModel(a.climbService)
				return a, a.rider.Init()
			case "?":
				if a.screen != ScreenHelp {
					a.prevScreen = a.screen
					a.screen = ScreenHelp
				}
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case OpenClimbDetailMsg:
		a.screen = ScreenDetail
		a.detail = NewClimbDetailModel(a.climbService, a.units, msg.Name, a.width, a.height)
		return a, a.detail.Init()

	case snapshotMsg:
		// the list stays current even while another screen is showing
		var cmds []tea.Cmd
		m, cmd := a.climbs.Update(msg)
		a.climbs = m.(ClimbsModel)
		cmds = append(cmds, cmd, a.waitForSnapshot)
		if a.screen == ScreenDetail {
			m, cmd = a.detail.Update(msg)
			a.detail = m.(ClimbDetailModel)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenClimbs:
		var m tea.Model
		m, cmd = a.climbs.Update(msg)
		a.climbs = m.(ClimbsModel)
	case ScreenDetail:
		var m tea.Model
		m, cmd = a.detail.Update(msg)
		a.detail = m.(ClimbDetailModel)
	case ScreenRider:
		var m tea.Model
		m, cmd = a.rider.Update(msg)
		a.rider = m.(RiderModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenClimbs:
		content = a.climbs.View()
	case ScreenDetail:
		content = a.detail.View()
	case ScreenRider:
		content = a.rider.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("climbcheck: climb suitability for your legs and gearing")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Climbs", ScreenClimbs},
		{"2", "Rider", ScreenRider},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		active := a.screen == item.screen || (item.screen == ScreenClimbs && a.screen == ScreenDetail)
		if active {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	snap := a.climbService.Snapshot()
	p := snap.Rider

	status := snap.Status.Message
	if snap.Import != nil && snap.Status.Ready() {
		status += ", imported " + humanize.Time(snap.Import.ImportedAt)
	}
	return statusStyle.Render(fmt.Sprintf("%s  ·  FTP %.0f W  ·  %.1f kg  ·  %.0f×%.0f  ·  %.0f rpm",
		status, p.FTPWatts, p.TotalMassKg(), p.FrontChainringTeeth, p.RearSprocketTeeth, p.MinCadenceRpm))
}
