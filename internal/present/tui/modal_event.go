package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/internal/eventform"
	"github.com/mithrel/calpad/pkg/api"
)

// eventModal is the add/edit popover. The controller owns the form values;
// the modal only holds the text inputs and forwards every change.
type eventModal struct {
	ctrl   *calendar.Controller
	mode   calendar.Mode
	inputs []textinput.Model
	fields []eventform.Field
	focus  int
	width  int
	height int
	box    lipglossv2.Style
}

// colorRow is the focus index of the palette row, after the text inputs.
const colorRow = 4

func newEventModal(ctrl *calendar.Controller, p calendar.PopoverState, size calendar.Size) *eventModal {
	m := &eventModal{
		ctrl:   ctrl,
		mode:   p.Mode,
		fields: []eventform.Field{eventform.FieldTitle, eventform.FieldDate, eventform.FieldTime, eventform.FieldNotes},
	}
	m.inputs = []textinput.Model{
		newFormInput("Title ", "What's happening?", p.Fields.Title),
		newFormInput("Date  ", eventform.DateLayout, p.Fields.Date),
		newFormInput("Time  ", eventform.TimeLayout, p.Fields.Time),
		newFormInput("Notes ", "optional", p.Fields.Notes),
	}
	m.resize(size)
	m.setFocus(0)
	return m
}

func newFormInput(prompt, placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.SetValue(value)
	return ti
}

func (m *eventModal) resize(size calendar.Size) {
	w, h := size.W, size.H
	if w < 36 {
		w = 36
	}
	if h < 12 {
		h = 12
	}
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(0, 1).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))
	innerW := w - 4
	for i := range m.inputs {
		m.inputs[i].Width = max(8, innerW-lipgloss.Width(m.inputs[i].Prompt)-1)
	}
}

func (m *eventModal) setFocus(idx int) {
	m.focus = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *eventModal) update(msg tea.Msg) (*eventModal, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % (colorRow + 1))
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + colorRow) % (colorRow + 1))
			return m, nil
		}
		if m.focus == colorRow {
			switch k.String() {
			case "left", "h":
				m.ctrl.CycleColor(-1)
			case "right", "l", " ":
				m.ctrl.CycleColor(1)
			}
			return m, nil
		}
	}
	if m.focus >= len(m.inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if v := m.inputs[m.focus].Value(); v != before {
		m.ctrl.SetField(m.fields[m.focus], v)
	}
	return m, cmd
}

func (m *eventModal) View(p calendar.PopoverState) string {
	title := "New event"
	commit, drop := "add", "cancel"
	if m.mode == calendar.EditPending {
		title = "Edit event"
		commit, drop = "edit", "discard"
	}
	header := lipgloss.NewStyle().Bold(true).Render(title)

	count := fmt.Sprintf("%d/%d", utf8.RuneCountInString(m.inputs[0].Value()), api.MaxTitleLen)
	countStyle := lipgloss.NewStyle().Faint(true)
	if utf8.RuneCountInString(m.inputs[0].Value()) > api.MaxTitleLen {
		countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	}

	lines := []string{header, ""}
	for i := range m.inputs {
		line := m.inputs[i].View()
		if i == 0 {
			line += " " + countStyle.Render(count)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", m.renderPalette(p.Fields.Color), "")

	commitStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	if !p.Valid {
		commitStyle = lipgloss.NewStyle().Faint(true)
	}
	help := lipgloss.NewStyle().Faint(true).Render("tab=next • esc=close")
	lines = append(lines,
		commitStyle.Render("ctrl+s "+strings.ToUpper(commit))+"  "+
			lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render("ctrl+d "+strings.ToUpper(drop)),
		help)
	return m.box.Render(strings.Join(lines, "\n"))
}

func (m *eventModal) renderPalette(current string) string {
	var b strings.Builder
	label := "Color "
	if m.focus == colorRow {
		label = lipgloss.NewStyle().Bold(true).Render(label)
	}
	b.WriteString(label)
	for _, c := range eventform.Palette {
		sw := lipgloss.NewStyle().Foreground(lipgloss.Color(c))
		if strings.EqualFold(c, current) {
			b.WriteString(sw.Render("[■]"))
		} else {
			b.WriteString(sw.Render(" ■ "))
		}
	}
	return b.String()
}
