// Package tui is the interactive terminal shell around the calendar
// controller: it draws the grid, turns cursor keys into slot and event
// selections, and hosts the edit popover.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/pkg/api"
)

// Options configures Run.
type Options struct {
	// Popover is the size of the edit popover in cells.
	Popover calendar.Size
	// Scheduler, when set, is attached to the program so controller timers
	// fire inside the event loop.
	Scheduler *Scheduler
}

// Run opens the calendar in the alternate screen and blocks until the user quits.
func Run(ctx context.Context, ctrl *calendar.Controller, opts Options) error {
	m := newModel(ctx, ctrl, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Scheduler != nil {
		opts.Scheduler.Attach(p)
		defer opts.Scheduler.Attach(nil)
	}
	_, err := p.Run()
	return err
}

type model struct {
	ctx  context.Context
	ctrl *calendar.Controller
	opts Options
	st   calendar.State

	width  int
	height int

	// cursor is the focused slot: a day in month view, an hour in week and
	// day view. agendaIdx is the focused row in agenda view.
	cursor    time.Time
	hourTop   int
	agendaIdx int
	agendaTop int
	pick      int

	grab   *api.Event
	modal  *eventModal
	search *searchModal
}

func newModel(ctx context.Context, ctrl *calendar.Controller, opts Options) model {
	if opts.Popover.W <= 0 || opts.Popover.H <= 0 {
		opts.Popover = calendar.Size{W: 44, H: 16}
	}
	now := ctrl.Now()
	m := model{
		ctx:    ctx,
		ctrl:   ctrl,
		opts:   opts,
		cursor: time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location()),
	}
	m.hourTop = max(0, m.cursor.Hour()-4)
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd { return nil }

// refresh pulls a new snapshot and opens or drops the popover to match it.
func (m *model) refresh() {
	m.st = m.ctrl.State()
	switch {
	case m.st.Popover.Open && m.modal == nil:
		m.modal = newEventModal(m.ctrl, m.st.Popover, m.opts.Popover)
	case !m.st.Popover.Open:
		m.modal = nil
	}
	if n := len(m.agendaEvents()); m.agendaIdx >= n {
		m.agendaIdx = max(0, n-1)
	}
	m.scroll()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runFuncMsg:
		msg.f()
		m.refresh()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ctrl.SetViewport(calendar.Size{W: msg.Width, H: msg.Height})
		if m.search != nil {
			m.search.resizeForTerm(msg.Width, msg.Height)
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			return m, tea.Quit
		case m.modal != nil:
			return m.handleModalKey(msg)
		case m.search != nil:
			return m.handleSearchKey(msg)
		default:
			return m.handleGridKey(msg)
		}
	}
	return m, nil
}

func (m model) handleModalKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.ctrl.ClosePopover()
	case "ctrl+s":
		m.ctrl.Save(m.ctx)
	case "ctrl+d":
		m.ctrl.Delete(m.ctx)
	default:
		var cmd tea.Cmd
		m.modal, cmd = m.modal.update(k)
		m.refresh()
		return m, cmd
	}
	m.refresh()
	return m, nil
}

func (m model) handleSearchKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc", "ctrl+q":
		m.search = nil
		return m, nil
	case "enter":
		ev, ok := m.search.selected()
		m.search = nil
		if ok {
			m.jumpTo(ev)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.update(k)
	return m, cmd
}

func (m model) handleGridKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q":
		if m.grab != nil {
			m.grab = nil
			return m, nil
		}
		return m, tea.Quit
	case "esc":
		m.grab = nil
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "enter", " ":
		switch {
		case m.grab != nil:
			m.drop()
		case m.st.View == api.ViewAgenda:
			if evs := m.agendaEvents(); len(evs) > 0 {
				m.ctrl.SelectEvent(calendar.EventClick{EventID: evs[m.agendaIdx].ID, Position: m.cursorPoint()})
			}
		default:
			m.ctrl.SelectSlot(m.cursorSlot())
		}
	case "n":
		m.ctrl.SelectSlot(m.cursorSlot())
	case "e", "tab":
		if ev, ok := m.pickEvent(); ok {
			m.ctrl.SelectEvent(calendar.EventClick{EventID: ev.ID, Position: m.cursorPoint()})
		}
	case "g":
		if ev, ok := m.pickEvent(); ok {
			m.grab = &ev
		}
	case "t":
		m.ctrl.Today()
		now := m.ctrl.Now()
		m.cursor = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	case "[":
		m.ctrl.Back()
		m.cursorToAnchor()
	case "]":
		m.ctrl.Next()
		m.cursorToAnchor()
	case "m":
		m.ctrl.SetView(m.ctx, api.ViewMonth)
	case "w":
		m.ctrl.SetView(m.ctx, api.ViewWeek)
	case "d":
		m.ctrl.SetView(m.ctx, api.ViewDay)
	case "a":
		m.ctrl.SetView(m.ctx, api.ViewAgenda)
	case "/":
		m.search = newSearchModal(m.st.Events, m.width, m.height)
		return m, nil
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

// moveCursor steps the focus. dx moves by day; dy by week in month view,
// by hour in week and day view, by row in agenda view.
func (m *model) moveCursor(dx, dy int) {
	m.pick = 0
	switch m.st.View {
	case api.ViewMonth:
		m.cursor = m.cursor.AddDate(0, 0, dx+7*dy)
	case api.ViewAgenda:
		if dx != 0 {
			m.cursor = m.cursor.AddDate(0, 0, dx)
			m.agendaIdx = 0
			m.ctrl.SetAnchor(m.cursor)
			return
		}
		m.agendaIdx = max(0, min(len(m.agendaEvents())-1, m.agendaIdx+dy))
		return
	default:
		m.cursor = m.cursor.AddDate(0, 0, dx)
		if h := m.cursor.Hour() + dy; h >= 0 && h < 24 {
			m.cursor = time.Date(m.cursor.Year(), m.cursor.Month(), m.cursor.Day(), h, 0, 0, 0, m.cursor.Location())
		}
	}
	m.follow()
}

// follow moves the controller anchor when the cursor leaves the visible window.
func (m *model) follow() {
	st := m.ctrl.State()
	if st.View == api.ViewMonth {
		if m.cursor.Year() != st.Anchor.Year() || m.cursor.Month() != st.Anchor.Month() {
			m.ctrl.SetAnchor(m.cursor)
		}
		return
	}
	if !st.Range.Contains(m.cursor) {
		m.ctrl.SetAnchor(m.cursor)
	}
}

func (m *model) cursorToAnchor() {
	a := m.ctrl.State().Anchor
	m.cursor = time.Date(a.Year(), a.Month(), a.Day(), m.cursor.Hour(), 0, 0, 0, a.Location())
	m.agendaIdx = 0
}

// scroll keeps the cursor hour and agenda row inside the drawn rows.
func (m *model) scroll() {
	rows := m.gridRows()
	h := m.cursor.Hour()
	if h < m.hourTop {
		m.hourTop = h
	}
	if h >= m.hourTop+rows {
		m.hourTop = h - rows + 1
	}
	m.hourTop = max(0, min(m.hourTop, 24-min(rows, 24)))
	if m.agendaIdx < m.agendaTop {
		m.agendaTop = m.agendaIdx
	}
	if m.agendaIdx >= m.agendaTop+rows {
		m.agendaTop = m.agendaIdx - rows + 1
	}
}

func (m *model) jumpTo(ev api.Event) {
	m.ctrl.SetAnchor(ev.Start)
	s := ev.Start.In(m.ctrl.Now().Location())
	m.cursor = time.Date(s.Year(), s.Month(), s.Day(), s.Hour(), 0, 0, 0, s.Location())
	m.refresh()
	for i, e := range m.agendaEvents() {
		if e.ID == ev.ID {
			m.agendaIdx = i
		}
	}
	m.scroll()
}

// cursorSlot is the slot a selection at the cursor opens. A month cell for
// today starts at the next full hour so it is not already in the past.
func (m model) cursorSlot() calendar.Slot {
	pt := m.cursorPoint()
	c := m.cursor
	day := calendar.StartOfDay(c)
	switch m.st.View {
	case api.ViewWeek, api.ViewDay:
		start := time.Date(c.Year(), c.Month(), c.Day(), c.Hour(), 0, 0, 0, c.Location())
		return calendar.Slot{Start: start, End: start.Add(time.Hour), Position: &pt}
	default:
		start := day
		if now := m.ctrl.Now(); sameDay(day, now) {
			start = time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, 0, 0, 0, now.Location())
		}
		return calendar.Slot{Start: start, End: day.AddDate(0, 0, 1), Position: &pt}
	}
}

// slotEvents lists events overlapping the cursor slot.
func (m model) slotEvents() []api.Event {
	if m.st.View == api.ViewAgenda {
		return m.agendaEvents()
	}
	s := m.cursorSlot()
	from := calendar.StartOfDay(m.cursor)
	if m.st.View != api.ViewMonth {
		from = s.Start
	}
	return eventsBetween(m.st.Events, from, s.End)
}

// pickEvent returns the event at the agenda row, or cycles through the
// events of the focused slot on repeated presses.
func (m *model) pickEvent() (api.Event, bool) {
	if m.st.View == api.ViewAgenda {
		evs := m.agendaEvents()
		if len(evs) == 0 {
			return api.Event{}, false
		}
		return evs[m.agendaIdx], true
	}
	evs := m.slotEvents()
	if len(evs) == 0 {
		m.ctrl.Notify("No events here")
		return api.Event{}, false
	}
	ev := evs[m.pick%len(evs)]
	m.pick++
	return ev, true
}

// drop reschedules the grabbed event onto the cursor. Month and agenda
// drops keep the time of day; week and day drops take the cursor hour.
func (m *model) drop() {
	ev := *m.grab
	m.grab = nil
	s := ev.Start.In(m.cursor.Location())
	c := m.cursor
	hour := s.Hour()
	if m.st.View == api.ViewWeek || m.st.View == api.ViewDay {
		hour = c.Hour()
	}
	start := time.Date(c.Year(), c.Month(), c.Day(), hour, s.Minute(), 0, 0, c.Location())
	m.ctrl.Drag(m.ctx, calendar.EventDrag{EventID: ev.ID, NewStart: start, NewEnd: start.Add(ev.Duration())})
}

func (m model) agendaEvents() []api.Event {
	if m.st.View != api.ViewAgenda {
		return nil
	}
	return eventsBetween(m.st.Events, m.st.Range.From, m.st.Range.To)
}

func (m model) View() string {
	base := strings.Join([]string{m.renderToolbar(), m.renderGrid(), m.renderFooter()}, "\n")
	switch {
	case m.modal != nil:
		p := m.st.Popover
		return m.renderOverlay(base, m.modal.View(p), p.Position.X, p.Position.Y)
	case m.search != nil:
		fg := m.search.View()
		w, h := m.termSize()
		return m.renderOverlay(base, fg, (w-lipgloss.Width(fg))/2, (h-lipgloss.Height(fg))/2)
	}
	return base
}

func (m model) renderToolbar() string {
	label := lipgloss.NewStyle().Bold(true).Render(m.st.Label)
	nav := lipgloss.NewStyle().Faint(true).Render("[ ‹  t today  › ]")
	var tabs []string
	for _, v := range api.Views() {
		st := lipgloss.NewStyle().Padding(0, 1)
		if v == m.st.View {
			st = st.Reverse(true)
		}
		tabs = append(tabs, st.Render(v.Label()))
	}
	right := strings.Join(tabs, "")
	w, _ := m.termSize()
	left := nav + "  " + label
	space := max(1, w-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", space) + right
}

func (m model) renderFooter() string {
	left := "←↑↓→ move • enter select • e edit • g grab • / find • m/w/d/a view • q quit"
	if m.grab != nil {
		left = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).
			Render(fmt.Sprintf("moving %q: move cursor, enter to drop, esc to cancel", m.grab.Title))
	}
	var right string
	if m.st.Notice != "" {
		right = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true).Render(m.st.Notice) + " "
	} else {
		right = fmt.Sprintf("%d events ", len(m.st.Events))
	}
	w, _ := m.termSize()
	space := max(1, w-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", space) + right
}
