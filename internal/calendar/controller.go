// Package calendar is the calendar page controller: it owns the current
// view and anchor date, drives the add/edit popover state machine, applies
// drag-drop reschedules, and mirrors changes to storage.
package calendar

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mithrel/calpad/internal/db"
	"github.com/mithrel/calpad/internal/eventform"
	"github.com/mithrel/calpad/internal/eventstore"
	"github.com/mithrel/calpad/internal/ics"
	"github.com/mithrel/calpad/pkg/api"
)

// DefaultViewKey is the storage key of the persisted view preference.
const DefaultViewKey = "calendarView"

const (
	DefaultNoticeTTL  = 3 * time.Second
	DefaultAgendaDays = 30
)

// Notice texts.
const (
	MsgPastSlot    = "Cannot create events in the past"
	MsgPastSave    = "Cannot schedule events in the past"
	MsgPastMove    = "Cannot move events into the past"
	MsgEndBefore   = "End time must be after start time"
	MsgEventGone   = "That event no longer exists"
	MsgInvalidForm = "Title (max 30 characters), date and time are required"
)

// Mode is the popover state.
type Mode int

const (
	Closed Mode = iota
	AddPending
	EditPending
)

func (m Mode) String() string {
	switch m {
	case AddPending:
		return "add"
	case EditPending:
		return "edit"
	default:
		return "closed"
	}
}

// Slot is an empty grid region the user selected.
type Slot struct {
	Start    time.Time
	End      time.Time
	Position *Point
}

// EventClick reports a click on an existing event.
type EventClick struct {
	EventID  string
	Position Point
}

// EventDrag reports an event dropped on a new span.
type EventDrag struct {
	EventID  string
	NewStart time.Time
	NewEnd   time.Time
}

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Now        func() time.Time
	Scheduler  Scheduler
	NoticeTTL  time.Duration
	Geometry   Geometry
	WeekStart  time.Weekday
	AgendaDays int
	ViewKey    string
	Location   *time.Location
	Logger     *log.Logger
}

type popover struct {
	mode    Mode
	seed    time.Time
	eventID string
	pos     Point
}

// Controller mediates between user interactions, the edit form and the
// event store. Every method is safe to call from the UI goroutine and from
// scheduler callbacks.
type Controller struct {
	mu sync.Mutex

	store *eventstore.Store
	kv    db.KV
	opts  Options
	log   *log.Logger
	now   func() time.Time

	view     api.View
	anchor   time.Time
	viewport Size
	pop      popover
	form     *eventform.Form

	notice      *Notice
	noticeTimer Timer
	noticeSeq   uint64
	closed      bool
}

// New builds a controller, loading the stored events and view preference.
func New(ctx context.Context, store *eventstore.Store, kv db.KV, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler{}
	}
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = DefaultNoticeTTL
	}
	if opts.AgendaDays <= 0 {
		opts.AgendaDays = DefaultAgendaDays
	}
	if opts.ViewKey == "" {
		opts.ViewKey = DefaultViewKey
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	c := &Controller{
		store: store,
		kv:    kv,
		opts:  opts,
		log:   logger,
		view:  api.DefaultView,
	}
	c.now = func() time.Time { return opts.Now().In(opts.Location) }
	c.anchor = c.now()
	c.form = c.newForm()
	c.view = c.loadView(ctx)
	store.LoadAll(ctx)
	return c
}

func (c *Controller) newForm() *eventform.Form {
	return eventform.New(eventform.WithClock(c.now), eventform.WithLocation(c.opts.Location))
}

func (c *Controller) loadView(ctx context.Context) api.View {
	raw, err := c.kv.Get(ctx, c.opts.ViewKey)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			c.log.Printf("warn: load view key=%s err=%v", c.opts.ViewKey, err)
		}
		return api.DefaultView
	}
	v, ok := api.ParseView(raw)
	if !ok {
		c.log.Printf("warn: ignoring stored view value=%q", raw)
	}
	return v
}

// Close stops the pending notice timer. Later timer fires are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
}

// SetViewport records the shell's drawable size for popover placement.
func (c *Controller) SetViewport(s Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = s
}

// SelectSlot opens the add popover seeded from the slot start. A start
// before the current minute is rejected with a notice.
func (c *Controller) SelectSlot(s Slot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !s.Start.IsZero() && beforeMinute(s.Start, c.now()) {
		c.notify(MsgPastSlot)
		return false
	}
	c.form = c.newForm()
	c.form.LoadFromInstant(s.Start)
	c.pop = popover{
		mode: AddPending,
		seed: s.Start,
		pos:  place(s.Position, c.viewport, c.opts.Geometry),
	}
	return true
}

// SelectEvent opens the edit popover for an existing event. Unknown ids
// are ignored.
func (c *Controller) SelectEvent(click EventClick) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev, ok := c.store.Get(click.EventID)
	if !ok {
		return false
	}
	c.form = c.newForm()
	c.form.LoadFromEvent(ev)
	pos := click.Position
	c.pop = popover{
		mode:    EditPending,
		eventID: ev.ID,
		pos:     place(&pos, c.viewport, c.opts.Geometry),
	}
	return true
}

// SetField routes a form-field change while the popover is open.
func (c *Controller) SetField(f eventform.Field, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pop.mode == Closed {
		return false
	}
	return c.form.Set(f, value)
}

// CycleColor steps the form colour through the palette.
func (c *Controller) CycleColor(step int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pop.mode == Closed {
		return
	}
	c.form.CycleColor(step)
}

// Save commits the popover. It does nothing for an invalid form and
// rejects spans that end before they start or start in the past.
func (c *Controller) Save(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pop.mode == Closed || !c.form.IsValid() {
		return false
	}
	span := c.form.ComposeEvent()
	if c.pop.mode == EditPending {
		cur, ok := c.store.Get(c.pop.eventID)
		if !ok {
			c.notify(MsgEventGone)
			c.closePopover()
			return false
		}
		if d := cur.Duration(); d > 0 {
			span.End = span.Start.Add(d)
		}
	}
	if !span.End.After(span.Start) {
		c.notify(MsgEndBefore)
		return false
	}
	if beforeMinute(span.Start, c.now()) {
		c.notify(MsgPastSave)
		return false
	}

	fields := c.form.Fields()
	switch c.pop.mode {
	case AddPending:
		ev := api.Event{
			ID:    api.NewID(),
			Title: fields.Title,
			Start: span.Start,
			End:   span.End,
			Color: api.StringPtr(fields.Color),
			Notes: api.StringPtr(fields.Notes),
		}
		for errors.Is(c.store.Add(ev), eventstore.ErrDuplicateID) {
			ev.ID = api.NewID()
		}
		c.log.Printf("created event id=%s title=%q start=%s", ev.ID, ev.Title, ev.Start.Format(time.RFC3339))
	case EditPending:
		c.store.Update(c.pop.eventID, eventstore.Patch{
			Title: &fields.Title,
			Start: &span.Start,
			End:   &span.End,
			Color: &fields.Color,
			Notes: &fields.Notes,
		})
		c.log.Printf("updated event id=%s title=%q start=%s", c.pop.eventID, fields.Title, span.Start.Format(time.RFC3339))
	}
	c.store.Persist(ctx)
	c.closePopover()
	return true
}

// Delete removes the edited event, or discards an unsaved add.
func (c *Controller) Delete(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.pop.mode {
	case Closed:
		return false
	case EditPending:
		if c.store.Remove(c.pop.eventID) {
			c.log.Printf("deleted event id=%s", c.pop.eventID)
			c.store.Persist(ctx)
		}
	}
	c.closePopover()
	return true
}

// ClosePopover discards the form without saving.
func (c *Controller) ClosePopover() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closePopover()
}

func (c *Controller) closePopover() {
	c.pop = popover{}
	c.form = c.newForm()
}

// Drag reschedules an event. Only start and end change; the popover is
// left alone. Unknown ids are ignored.
func (c *Controller) Drag(ctx context.Context, d EventDrag) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.store.Get(d.EventID); !ok {
		return false
	}
	if beforeMinute(d.NewStart, c.now()) {
		c.notify(MsgPastMove)
		return false
	}
	if !d.NewEnd.After(d.NewStart) {
		c.notify(MsgEndBefore)
		return false
	}
	c.store.Update(d.EventID, eventstore.Patch{Start: &d.NewStart, End: &d.NewEnd})
	c.log.Printf("moved event id=%s start=%s", d.EventID, d.NewStart.Format(time.RFC3339))
	c.store.Persist(ctx)
	return true
}

// Import merges parsed events into the store, skipping content
// duplicates and re-keying id collisions, and persists once.
func (c *Controller) Import(ctx context.Context, incoming []api.Event) (added []api.Event, duplicates int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	added, duplicates = ics.Merge(c.store.List(), incoming)
	kept := added[:0]
	for _, e := range added {
		if err := c.store.Add(e); err != nil {
			c.log.Printf("warn: import skipped id=%s err=%v", e.ID, err)
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > 0 {
		c.store.Persist(ctx)
	}
	c.log.Printf("imported events added=%d duplicates=%d", len(kept), duplicates)
	return kept, duplicates
}

// Today moves the anchor to the current instant.
func (c *Controller) Today() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchor = c.now()
}

// Back moves the anchor one unit of the current view backwards.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchor = step(c.view, c.anchor, -1)
}

// Next moves the anchor one unit of the current view forwards.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchor = step(c.view, c.anchor, 1)
}

// SetAnchor moves the anchor to t without changing the view.
func (c *Controller) SetAnchor(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.IsZero() {
		return
	}
	c.anchor = t.In(c.opts.Location)
}

// SetView switches the layout and persists the choice immediately.
func (c *Controller) SetView(ctx context.Context, v api.View) bool {
	pv, ok := api.ParseView(string(v))
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = pv
	if err := c.kv.Set(ctx, c.opts.ViewKey, string(pv)); err != nil {
		c.log.Printf("warn: write view key=%s err=%v", c.opts.ViewKey, err)
	}
	return true
}

// Notify shows a notice from the shell (for example a failed lookup).
func (c *Controller) Notify(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify(text)
}

// Now returns the controller's current time.
func (c *Controller) Now() time.Time { return c.now() }

// State snapshots everything the shell needs to render.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		View:   c.view,
		Anchor: c.anchor,
		Label:  toolbarLabel(c.view, c.anchor),
		Range:  c.rangeLocked(),
		Events: sortedByStart(c.store.List()),
	}
	if c.notice != nil {
		st.Notice = c.notice.Text
	}
	if c.pop.mode != Closed {
		st.Popover = PopoverState{
			Open:     true,
			Mode:     c.pop.mode,
			EventID:  c.pop.eventID,
			Seed:     c.pop.seed,
			Position: c.pop.pos,
			Fields:   c.form.Fields(),
			Valid:    c.form.IsValid(),
		}
	}
	return st
}

// Range is the window the current view lays out.
func (c *Controller) Range() Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rangeLocked()
}

func (c *Controller) rangeLocked() Range {
	return visibleRange(c.view, c.anchor, c.opts.WeekStart, c.opts.AgendaDays)
}

// EventsInRange returns events intersecting r, sorted by start.
func (c *Controller) EventsInRange(r Range) []api.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []api.Event
	for _, e := range c.store.List() {
		if e.Overlaps(r.From, r.To) {
			out = append(out, e)
		}
	}
	return sortedByStart(out)
}

// Event returns a copy of one stored event.
func (c *Controller) Event(id string) (api.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Get(id)
}

// WeekStart is the configured first day of the week.
func (c *Controller) WeekStart() time.Weekday { return c.opts.WeekStart }

func sortedByStart(evs []api.Event) []api.Event {
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].Start.Equal(evs[j].Start) {
			return evs[i].End.Before(evs[j].End)
		}
		return evs[i].Start.Before(evs[j].Start)
	})
	return evs
}
