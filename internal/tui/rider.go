package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"climbcheck/internal/analysis"
	"climbcheck/internal/service"
	"climbcheck/internal/store"
)

type riderField struct {
	label string
	unit  string
	get   func(p store.RiderProfile) float64
	set   func(p *store.RiderProfile, v float64)
}

var riderFields = []riderField{
	{"FTP", "W", func(p store.RiderProfile) float64 { return p.FTPWatts }, func(p *store.RiderProfile, v float64) { p.FTPWatts = v }},
	{"Rider weight", "kg", func(p store.RiderProfile) float64 { return p.RiderWeightKg }, func(p *store.RiderProfile, v float64) { p.RiderWeightKg = v }},
	{"Bike weight", "kg", func(p store.RiderProfile) float64 { return p.BikeWeightKg }, func(p *store.RiderProfile, v float64) { p.BikeWeightKg = v }},
	{"Cargo weight", "kg", func(p store.RiderProfile) float64 { return p.CargoWeightKg }, func(p *store.RiderProfile, v float64) { p.CargoWeightKg = v }},
	{"Chainring", "teeth", func(p store.RiderProfile) float64 { return p.FrontChainringTeeth }, func(p *store.RiderProfile, v float64) { p.FrontChainringTeeth = v }},
	{"Largest sprocket", "teeth", func(p store.RiderProfile) float64 { return p.RearSprocketTeeth }, func(p *store.RiderProfile, v float64) { p.RearSprocketTeeth = v }},
	{"Wheel circumference", "mm", func(p store.RiderProfile) float64 { return p.WheelCircumferenceMm }, func(p *store.RiderProfile, v float64) { p.WheelCircumferenceMm = v }},
	{"Minimum cadence", "rpm", func(p store.RiderProfile) float64 { return p.MinCadenceRpm }, func(p *store.RiderProfile, v float64) { p.MinCadenceRpm = v }},
}

// RiderModel is the rider profile form
type RiderModel struct {
	climbService *service.ClimbService
	inputs       []textinput.Model
	focus        int
	err          error
	saved        bool
}

// NewRiderModel creates the form filled with the active profile
func NewRiderModel(cs *service.ClimbService) RiderModel {
	m := RiderModel{climbService: cs}
	m.reset(cs.Rider())
	return m
}

func (m *RiderModel) reset(p store.RiderProfile) {
	m.inputs = make([]textinput.Model, len(riderFields))
	for i, f := range riderFields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 10
		in.Width = 10
		in.SetValue(strconv.FormatFloat(f.get(p), 'f', -1, 64))
		m.inputs[i] = in
	}
	m.focus = 0
	m.inputs[0].Focus()
}

// Init initializes the rider screen
func (m RiderModel) Init() tea.Cmd {
	return textinput.Blink
}

// claims reports whether k is typed into the focused field. Only characters
// a number can contain are claimed, so q and ? still reach the app.
func (m RiderModel) claims(k tea.KeyMsg) bool {
	if k.Type != tea.KeyRunes {
		return false
	}
	for _, r := range k.Runes {
		if !unicode.IsDigit(r) && r != '.' && r != '-' {
			return false
		}
	}
	return true
}

type riderSavedMsg struct {
	err error
}

// Update handles messages
func (m RiderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case riderSavedMsg:
		m.err = msg.err
		m.saved = msg.err == nil
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			cmd := m.moveFocus(1)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.moveFocus(-1)
			return m, cmd
		case "ctrl+r":
			m.reset(m.climbService.Rider())
			m.err = nil
			return m, nil
		case "enter":
			p, err := m.profile()
			if err != nil {
				m.err = err
				m.saved = false
				return m, nil
			}
			cs := m.climbService
			return m, func() tea.Msg {
				return riderSavedMsg{err: cs.SetRider(p)}
			}
		}
	}

	m.saved = false
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *RiderModel) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

// profile parses the form. Negative values are rejected; zero is allowed and
// clamped by the engine.
func (m RiderModel) profile() (store.RiderProfile, error) {
	var p store.RiderProfile
	for i, f := range riderFields {
		raw := strings.TrimSpace(m.inputs[i].Value())
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("%s: %q is not a number", f.label, raw)
		}
		if v < 0 {
			return p, fmt.Errorf("%s must not be negative", f.label)
		}
		f.set(&p, v)
	}
	return p, nil
}

// View renders the form
func (m RiderModel) View() string {
	sections := []string{cardTitleStyle.Render("Rider profile")}

	for i, f := range riderFields {
		label := metricLabelStyle.Render(f.label)
		if i == m.focus {
			label = navActiveStyle.Width(22).Render("> " + f.label)
		}
		sections = append(sections, "  "+label+m.inputs[i].View()+" "+helpDescStyle.Render(f.unit))
	}

	if p, err := m.profile(); err == nil {
		r := analysis.NormalizeRider(p, analysis.DefaultPhysics())
		sections = append(sections, "",
			"  "+RenderMetric("System mass", fmt.Sprintf("%.1f kg", r.TotalMassKg)),
			"  "+RenderMetric("Minimum speed", fmt.Sprintf("%.1f km/h", analysis.MpsToKmh(analysis.MinSpeed(r)))),
		)
	}

	switch {
	case m.err != nil:
		sections = append(sections, errorStyle.Render("\n  "+m.err.Error()))
	case m.saved:
		sections = append(sections, successStyle.Render("\n  Saved. Climbs re-rated for this profile."))
	}

	sections = append(sections, statusStyle.Render("\n  tab/arrows: move  enter: save  ctrl+r: revert  esc: back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
