package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/calpad/internal/present/format"
	"github.com/mithrel/calpad/internal/util"
	"github.com/mithrel/calpad/pkg/api"
)

// searchEvents ranks events by fuzzy title match. An empty query keeps the
// input order.
func searchEvents(query string, events []api.Event) []api.Event {
	return util.RankEvents(query, events)
}

// searchModal is a foreground modal for jumping to an event by title.
type searchModal struct {
	input   textinput.Model
	events  []api.Event
	results []api.Event
	sel     int
	width   int
	height  int
	box     lipglossv2.Style
}

func newSearchModal(events []api.Event, termW, termH int) *searchModal {
	m := &searchModal{events: events}
	m.input = textinput.New()
	m.input.Prompt = "/ "
	m.input.Placeholder = "event title"
	m.input.Focus()
	m.results = searchEvents("", events)
	m.resizeForTerm(termW, termH)
	return m
}

func (m *searchModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	if w < 40 {
		w = max(36, termW-2)
	}
	h := int(float64(termH) * 0.5)
	if h < 10 {
		h = max(8, termH-1)
	}
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(0, 1).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))
	m.input.Width = max(12, w-4-lipgloss.Width(m.input.Prompt))
}

// selected returns the highlighted result.
func (m *searchModal) selected() (api.Event, bool) {
	if m.sel < 0 || m.sel >= len(m.results) {
		return api.Event{}, false
	}
	return m.results[m.sel], true
}

func (m *searchModal) update(msg tea.Msg) (*searchModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg:
		switch x.String() {
		case "down", "ctrl+n":
			if m.sel < len(m.results)-1 {
				m.sel++
			}
			return m, nil
		case "up", "ctrl+p":
			if m.sel > 0 {
				m.sel--
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.results = searchEvents(m.input.Value(), m.events)
		m.sel = 0
	}
	return m, cmd
}

func (m *searchModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Find event")
	lines := []string{header, "", m.input.View(), ""}
	rows := max(1, m.height-7)
	for i, e := range m.results {
		if i >= rows {
			break
		}
		line := e.Start.Local().Format(format.TimeLayout) + "  " + clip(e.Title, m.width-24)
		if i == m.sel {
			line = lipgloss.NewStyle().Reverse(true).Render(line)
		} else {
			line = eventStyle(e).Render(line)
		}
		lines = append(lines, line)
	}
	if len(m.results) == 0 {
		lines = append(lines, lipgloss.NewStyle().Faint(true).Render("no matches"))
	}
	help := lipgloss.NewStyle().Faint(true).Render("enter=jump • esc=cancel • ↑/↓=select")
	lines = append(lines, "", help)
	return m.box.Render(strings.Join(lines, "\n"))
}
