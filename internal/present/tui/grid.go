package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/pkg/api"
)

const (
	toolbarLines = 1
	headerLines  = 1
	footerLines  = 1
	gutterW      = 6
)

var (
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("237"))
	todayStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
)

func (m model) termSize() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	return w, h
}

// gridRows is the number of lines available below the header.
func (m model) gridRows() int {
	_, h := m.termSize()
	return max(6, h-toolbarLines-headerLines-footerLines)
}

func (m model) monthCell() (int, int) {
	w, _ := m.termSize()
	return max(8, w/7), max(2, m.gridRows()/6)
}

func (m model) dayColumns() int {
	if m.st.View == api.ViewWeek {
		return 7
	}
	return 1
}

func (m model) columnWidth() int {
	w, _ := m.termSize()
	return max(8, (w-gutterW)/m.dayColumns())
}

// dayIndex counts calendar days from the start of the visible range to t.
func (m model) dayIndex(t time.Time) int {
	d := calendar.StartOfDay(t).Sub(m.st.Range.From).Hours() / 24
	return int(math.Round(d))
}

// cursorPoint is the screen cell of the focused slot; it anchors the popover.
func (m model) cursorPoint() calendar.Point {
	top := toolbarLines + headerLines
	switch m.st.View {
	case api.ViewMonth:
		cw, ch := m.monthCell()
		idx := m.dayIndex(m.cursor)
		return calendar.Point{X: (idx % 7) * cw, Y: top + (idx/7)*ch}
	case api.ViewAgenda:
		return calendar.Point{X: 2, Y: top + m.agendaIdx - m.agendaTop}
	default:
		col := 0
		if m.st.View == api.ViewWeek {
			col = m.dayIndex(m.cursor)
		}
		return calendar.Point{X: gutterW + col*m.columnWidth(), Y: top + m.cursor.Hour() - m.hourTop}
	}
}

func (m model) renderGrid() string {
	switch m.st.View {
	case api.ViewMonth:
		return m.renderMonth()
	case api.ViewAgenda:
		return m.renderAgenda()
	default:
		return m.renderHours()
	}
}

func (m model) renderMonth() string {
	cw, ch := m.monthCell()
	now := m.ctrl.Now()
	var header []string
	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(m.ctrl.WeekStart()) + i) % 7)
		header = append(header, headerStyle.Width(cw).Render(wd.String()[:3]))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for week := 0; week < 6; week++ {
		var cells []string
		for dow := 0; dow < 7; dow++ {
			day := m.st.Range.From.AddDate(0, 0, week*7+dow)
			cells = append(cells, m.renderMonthCell(day, now, cw, ch))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m model) renderMonthCell(day, now time.Time, w, h int) string {
	num := fmt.Sprintf("%2d", day.Day())
	switch {
	case sameDay(day, now):
		num = todayStyle.Render(num)
	case day.Month() != m.st.Anchor.Month():
		num = mutedStyle.Render(num)
	}
	lines := []string{num}
	evs := eventsBetween(m.st.Events, day, day.AddDate(0, 0, 1))
	for i, e := range evs {
		if len(lines) == h-1 && i < len(evs)-1 {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("+%d more", len(evs)-i)))
			break
		}
		if len(lines) >= h {
			break
		}
		label := e.Start.Local().Format("15:04") + " " + e.Title
		if m.grab != nil && m.grab.ID == e.ID {
			label = "» " + label
		}
		lines = append(lines, eventStyle(e).Render(clip(label, w-1)))
	}
	st := lipgloss.NewStyle().Width(w).Height(h).MaxHeight(h)
	if sameDay(day, m.cursor) {
		st = st.Inherit(cursorStyle)
	}
	return st.Render(strings.Join(lines, "\n"))
}

// renderHours draws the week and day layouts: one row per hour.
func (m model) renderHours() string {
	cols := m.dayColumns()
	colW := m.columnWidth()
	now := m.ctrl.Now()
	from := m.st.Range.From

	header := []string{strings.Repeat(" ", gutterW)}
	for c := 0; c < cols; c++ {
		day := from.AddDate(0, 0, c)
		label := clip(day.Format("Mon 02"), colW-1)
		st := headerStyle.Width(colW)
		if sameDay(day, now) {
			st = st.Inherit(todayStyle)
		}
		header = append(header, st.Render(label))
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	rows := min(m.gridRows(), 24)
	for r := 0; r < rows; r++ {
		hour := m.hourTop + r
		if hour > 23 {
			break
		}
		cells := []string{mutedStyle.Width(gutterW).Render(fmt.Sprintf("%02d:00", hour))}
		for c := 0; c < cols; c++ {
			day := from.AddDate(0, 0, c)
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
			cells = append(cells, m.renderHourCell(start, colW))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderHourCell(start time.Time, w int) string {
	end := start.Add(time.Hour)
	var parts []string
	for _, e := range eventsBetween(m.st.Events, start, end) {
		if e.Start.Before(start) {
			parts = append(parts, eventStyle(e).Render("│"))
			continue
		}
		label := e.Title
		if m.grab != nil && m.grab.ID == e.ID {
			label = "» " + label
		}
		parts = append(parts, eventStyle(e).Render(label))
	}
	text := clip(strings.Join(parts, " "), w-1)
	st := lipgloss.NewStyle().Width(w).MaxHeight(1)
	if sameDay(start, m.cursor) && start.Hour() == m.cursor.Hour() {
		st = st.Inherit(cursorStyle)
	}
	return st.Render(text)
}

func (m model) renderAgenda() string {
	w, _ := m.termSize()
	evs := m.agendaEvents()
	lines := []string{headerStyle.Render(fmt.Sprintf("Next %d days from %s",
		int(math.Round(m.st.Range.To.Sub(m.st.Range.From).Hours()/24)), m.st.Range.From.Format("Mon 02 Jan")))}
	if len(evs) == 0 {
		lines = append(lines, mutedStyle.Render("  nothing scheduled • n to add"))
		return strings.Join(lines, "\n")
	}
	rows := m.gridRows()
	for i := m.agendaTop; i < len(evs) && i < m.agendaTop+rows; i++ {
		e := evs[i]
		s, end := e.Start.Local(), e.End.Local()
		line := fmt.Sprintf("%s  %s–%s  ", s.Format("Mon 02 Jan"), s.Format("15:04"), end.Format("15:04"))
		title := clip(e.Title, w-lipgloss.Width(line)-2)
		if m.grab != nil && m.grab.ID == e.ID {
			title = "» " + title
		}
		row := line + eventStyle(e).Render(title)
		if i == m.agendaIdx {
			row = cursorStyle.Render("▸ " + row)
		} else {
			row = "  " + row
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

// eventsBetween filters events overlapping [from, to), keeping their order.
func eventsBetween(events []api.Event, from, to time.Time) []api.Event {
	var out []api.Event
	for _, e := range events {
		if e.Overlaps(from, to) {
			out = append(out, e)
		}
	}
	return out
}
