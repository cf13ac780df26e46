package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/internal/db"
	"github.com/mithrel/calpad/internal/eventform"
	"github.com/mithrel/calpad/internal/eventstore"
	"github.com/mithrel/calpad/pkg/api"
)

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

type manualScheduler struct{ fs []func() }

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) calendar.Timer {
	s.fs = append(s.fs, f)
	return noopTimer{}
}

var tuiNow = time.Date(2030, 5, 15, 10, 30, 0, 0, time.UTC)

func setup(t *testing.T, evs ...api.Event) (model, *db.Mem, *manualScheduler) {
	t.Helper()
	ctx := context.Background()
	kv := db.NewMem()
	if len(evs) > 0 {
		eventstore.New(kv).SaveAll(ctx, evs)
	}
	sched := &manualScheduler{}
	ctrl := calendar.New(ctx, eventstore.New(kv, eventstore.WithLocation(time.UTC)), kv, calendar.Options{
		Now:       func() time.Time { return tuiNow },
		Scheduler: sched,
		Location:  time.UTC,
		Geometry:  calendar.Geometry{Popover: calendar.Size{W: 44, H: 16}, Offset: 1, Inset: 1},
	})
	t.Cleanup(ctrl.Close)
	m := newModel(ctx, ctrl, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 44})
	return next.(model), kv, sched
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m model, keys ...string) model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(model)
	}
	return m
}

func TestViewKeysPersist(t *testing.T) {
	m, kv, _ := setup(t)
	assert.Equal(t, api.ViewMonth, m.st.View)

	m = press(m, "w")
	assert.Equal(t, api.ViewWeek, m.st.View)
	v, err := kv.Get(context.Background(), calendar.DefaultViewKey)
	require.NoError(t, err)
	assert.Equal(t, "week", v)

	m = press(m, "a")
	assert.Equal(t, api.ViewAgenda, m.st.View)
}

func TestAddEventFromMonthCell(t *testing.T) {
	m, _, _ := setup(t)

	m = press(m, "enter")
	require.NotNil(t, m.modal)
	assert.Equal(t, calendar.AddPending, m.st.Popover.Mode)
	assert.Equal(t, "11:00", m.st.Popover.Fields.Time, "today's cell seeds the next full hour")

	m = press(m, "Lunch", "ctrl+s")
	assert.Nil(t, m.modal)
	require.Len(t, m.st.Events, 1)
	assert.Equal(t, "Lunch", m.st.Events[0].Title)
	assert.Equal(t, time.Date(2030, 5, 15, 11, 0, 0, 0, time.UTC), m.st.Events[0].Start)
}

func TestPastCellShowsNotice(t *testing.T) {
	m, _, sched := setup(t)
	m = press(m, "left", "enter")
	assert.Nil(t, m.modal)
	assert.Equal(t, calendar.MsgPastSlot, m.st.Notice)
	assert.Contains(t, m.View(), calendar.MsgPastSlot)

	require.Len(t, sched.fs, 1)
	next, _ := m.Update(runFuncMsg{f: sched.fs[0]})
	m = next.(model)
	assert.Empty(t, m.st.Notice)
}

func TestWeekViewRejectsCurrentHourSlot(t *testing.T) {
	m, _, _ := setup(t)
	m = press(m, "w", "enter")
	assert.Nil(t, m.modal, "10:00 is already past at 10:30")

	m = press(m, "down", "enter")
	require.NotNil(t, m.modal)
	assert.Equal(t, "11:00", m.st.Popover.Fields.Time)
}

func TestPopoverColorRow(t *testing.T) {
	m, _, _ := setup(t)
	m = press(m, "enter", "tab", "tab", "tab", "tab", "right")
	assert.Equal(t, eventform.Palette[1], m.st.Popover.Fields.Color)
	m = press(m, "esc")
	assert.Nil(t, m.modal)
	assert.False(t, m.st.Popover.Open)
}

func TestEditAndDeleteFromCell(t *testing.T) {
	start := time.Date(2030, 5, 16, 12, 0, 0, 0, time.UTC)
	m, _, _ := setup(t, api.Event{ID: "a", Title: "Dentist", Start: start, End: start.Add(time.Hour)})

	m = press(m, "right", "e")
	require.NotNil(t, m.modal)
	assert.Equal(t, calendar.EditPending, m.st.Popover.Mode)
	assert.Equal(t, "Dentist", m.st.Popover.Fields.Title)

	m = press(m, "ctrl+d")
	assert.Nil(t, m.modal)
	assert.Empty(t, m.st.Events)
}

func TestGrabAndDrop(t *testing.T) {
	start := time.Date(2030, 5, 16, 12, 15, 0, 0, time.UTC)
	m, _, _ := setup(t, api.Event{ID: "a", Title: "Review", Start: start, End: start.Add(90 * time.Minute)})

	m = press(m, "right", "g")
	require.NotNil(t, m.grab)
	m = press(m, "right", "right", "enter")
	assert.Nil(t, m.grab)
	require.Len(t, m.st.Events, 1)
	got := m.st.Events[0]
	assert.Equal(t, time.Date(2030, 5, 18, 12, 15, 0, 0, time.UTC), got.Start)
	assert.Equal(t, 90*time.Minute, got.Duration())
}

func TestDropIntoPastIsRejected(t *testing.T) {
	start := time.Date(2030, 5, 16, 12, 0, 0, 0, time.UTC)
	m, _, _ := setup(t, api.Event{ID: "a", Title: "Review", Start: start, End: start.Add(time.Hour)})

	m = press(m, "right", "g", "left", "left", "enter")
	assert.Equal(t, calendar.MsgPastMove, m.st.Notice)
	assert.Equal(t, start, m.st.Events[0].Start)
}

func TestSearchJumps(t *testing.T) {
	far := time.Date(2030, 7, 4, 21, 0, 0, 0, time.UTC)
	m, _, _ := setup(t,
		api.Event{ID: "a", Title: "Fireworks", Start: far, End: far.Add(time.Hour)},
		api.Event{ID: "b", Title: "Standup", Start: tuiNow.Add(time.Hour), End: tuiNow.Add(2 * time.Hour)},
	)
	m = press(m, "/")
	require.NotNil(t, m.search)
	m = press(m, "fire")
	ev, ok := m.search.selected()
	require.True(t, ok)
	assert.Equal(t, "a", ev.ID)

	m = press(m, "enter")
	assert.Nil(t, m.search)
	assert.Equal(t, time.July, m.st.Anchor.Month())
	assert.Equal(t, "July 2030", m.st.Label)
}

func TestSearchEventsRanking(t *testing.T) {
	evs := []api.Event{{ID: "1", Title: "Standup"}, {ID: "2", Title: "Sprint review"}, {ID: "3", Title: "Lunch"}}
	assert.Len(t, searchEvents("", evs), 3)
	got := searchEvents("srv", evs)
	require.NotEmpty(t, got)
	assert.Equal(t, "2", got[0].ID)
	assert.Empty(t, searchEvents("zzz", evs))
}

func TestAgendaNavigation(t *testing.T) {
	a := time.Date(2030, 5, 16, 9, 0, 0, 0, time.UTC)
	m, _, _ := setup(t,
		api.Event{ID: "a", Title: "First", Start: a, End: a.Add(time.Hour)},
		api.Event{ID: "b", Title: "Second", Start: a.Add(24 * time.Hour), End: a.Add(25 * time.Hour)},
	)
	m = press(m, "a", "down")
	assert.Equal(t, 1, m.agendaIdx)
	m = press(m, "enter")
	require.NotNil(t, m.modal)
	assert.Equal(t, "b", m.st.Popover.EventID)
	assert.Contains(t, m.View(), "Edit event")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "", clip("anything", 0))
	got := clip("a rather long title", 8)
	assert.LessOrEqual(t, len([]rune(got)), 8)
	assert.Contains(t, got, "…")
}
