package api

import "time"

// MaxTitleLen is the longest title, in characters, the edit form accepts.
const MaxTitleLen = 30

// DefaultDuration is the span given to a newly created event.
const DefaultDuration = time.Hour

// Event is a single time-blocked calendar entry.
// Color and Notes are optional; nil means the field was never set.
type Event struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Color *string   `json:"color,omitempty"`
	Notes *string   `json:"notes,omitempty"`
}

// Duration returns End - Start.
func (e Event) Duration() time.Duration { return e.End.Sub(e.Start) }

// ColorOr returns the event colour, or def when none is set.
func (e Event) ColorOr(def string) string {
	if e.Color == nil || *e.Color == "" {
		return def
	}
	return *e.Color
}

// NotesText returns the notes, or "" when absent.
func (e Event) NotesText() string {
	if e.Notes == nil {
		return ""
	}
	return *e.Notes
}

// Clone returns a copy that shares no pointers with e.
func (e Event) Clone() Event {
	out := e
	out.Color = OptString(e.Color)
	out.Notes = OptString(e.Notes)
	return out
}

// Overlaps reports whether the event intersects [from, to).
func (e Event) Overlaps(from, to time.Time) bool {
	return e.Start.Before(to) && e.End.After(from)
}

// OptString copies an optional string.
func OptString(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
