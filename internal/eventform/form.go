// Package eventform holds the text fields of an event being added or edited
// and converts them to and from event instants.
package eventform

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mithrel/calpad/pkg/api"
)

const (
	DateLayout   = "01/02/2006"
	TimeLayout   = "15:04"
	DefaultColor = "#3B86FF"
)

// Palette is the fixed set of swatches an event colour is chosen from.
var Palette = []string{
	"#3B86FF",
	"#FF6B6B",
	"#4ECDC4",
	"#FFD93D",
	"#95E1D3",
	"#F38181",
	"#AA96DA",
	"#FCBAD3",
}

// dateLayouts are tried in order; the second accepts unpadded month/day.
var dateLayouts = []string{DateLayout, "1/2/2006"}

// Field names a form input.
type Field string

const (
	FieldTitle Field = "title"
	FieldDate  Field = "date"
	FieldTime  Field = "time"
	FieldNotes Field = "notes"
	FieldColor Field = "color"
)

// Fields is a value snapshot of the form.
type Fields struct {
	Title string
	Date  string
	Time  string
	Notes string
	Color string
}

// Span is a composed start/end pair. A zero Start means the date text did not parse.
type Span struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether Start is a real instant.
func (s Span) Valid() bool { return !s.Start.IsZero() }

// Form is the transient state of the add/edit popover. It never aliases a
// stored event: loading copies values in and composing builds new ones.
type Form struct {
	f   Fields
	now func() time.Time
	loc *time.Location
}

type Option func(*Form)

// WithClock overrides the wall clock used for fallbacks.
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

// WithLocation sets the zone dates and times are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(f *Form) { f.loc = loc }
}

func New(opts ...Option) *Form {
	f := &Form{now: time.Now, loc: time.Local}
	for _, o := range opts {
		o(f)
	}
	f.Reset()
	return f
}

// Reset clears every field and restores the default colour.
func (f *Form) Reset() {
	f.f = Fields{Color: DefaultColor}
}

// LoadFromInstant seeds the form for adding an event at t.
// A zero t falls back to the current time.
func (f *Form) LoadFromInstant(t time.Time) {
	f.f = Fields{Color: DefaultColor}
	f.setInstant(t)
}

// LoadFromEvent copies an existing event into the form.
func (f *Form) LoadFromEvent(e api.Event) {
	f.f = Fields{
		Title: e.Title,
		Notes: e.NotesText(),
		Color: e.ColorOr(DefaultColor),
	}
	f.setInstant(e.Start)
}

func (f *Form) setInstant(t time.Time) {
	if t.IsZero() {
		t = f.now()
	}
	t = t.In(f.loc)
	f.f.Date = t.Format(DateLayout)
	f.f.Time = t.Format(TimeLayout)
}

// ComposeEvent turns the date and time text into a start instant and
// End = Start + 1h. Hour or minute values that are not numbers or are out of
// range become 0. If the date does not parse the returned Span is zero.
func (f *Form) ComposeEvent() Span {
	day, ok := f.parseDate()
	if !ok {
		return Span{}
	}
	hour, minute := parseClock(f.f.Time)
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, f.loc)
	return Span{Start: start, End: start.Add(api.DefaultDuration)}
}

func (f *Form) parseDate() (time.Time, bool) {
	s := strings.TrimSpace(f.f.Date)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseClock(s string) (int, int) {
	hs, ms, _ := strings.Cut(s, ":")
	hour := atoiOrZero(hs)
	minute := atoiOrZero(ms)
	if hour < 0 || hour > 23 {
		hour = 0
	}
	if minute < 0 || minute > 59 {
		minute = 0
	}
	return hour, minute
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// IsValid reports whether the form can be committed: a trimmed non-empty
// title of at most 30 characters, non-empty date and time text, and a date
// that composes to a real instant.
func (f *Form) IsValid() bool {
	if strings.TrimSpace(f.f.Title) == "" || utf8.RuneCountInString(f.f.Title) > api.MaxTitleLen {
		return false
	}
	if f.f.Date == "" || f.f.Time == "" {
		return false
	}
	return f.ComposeEvent().Valid()
}

// Set routes a field change. Colours outside the palette and unknown fields
// are rejected.
func (f *Form) Set(field Field, value string) bool {
	switch field {
	case FieldTitle:
		f.f.Title = value
	case FieldDate:
		f.f.Date = value
	case FieldTime:
		f.f.Time = value
	case FieldNotes:
		f.f.Notes = value
	case FieldColor:
		i := PaletteIndex(value)
		if i < 0 {
			return false
		}
		f.f.Color = Palette[i]
	default:
		return false
	}
	return true
}

// CycleColor moves the colour step swatches through the palette, wrapping.
func (f *Form) CycleColor(step int) {
	i := PaletteIndex(f.f.Color)
	if i < 0 {
		i = 0
	}
	n := len(Palette)
	f.f.Color = Palette[((i+step)%n+n)%n]
}

// Fields returns a copy of the current values.
func (f *Form) Fields() Fields { return f.f }

// PaletteIndex returns the index of c in Palette (case-insensitive), or -1.
func PaletteIndex(c string) int {
	for i, p := range Palette {
		if strings.EqualFold(p, c) {
			return i
		}
	}
	return -1
}
