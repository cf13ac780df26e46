package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	ical "github.com/arran4/golang-ical"

	"github.com/mithrel/calpad/pkg/api"
)

// ErrEmpty is returned for a document without any VEVENT.
var ErrEmpty = errors.New("no events in calendar")

// Result is the outcome of Parse.
type Result struct {
	Events []api.Event
	// Skipped counts VEVENTs without a summary or a usable start.
	Skipped int
	// Recurring counts VEVENTs whose RRULE was dropped; only the first
	// occurrence is imported.
	Recurring int
}

// Parse reads a VCALENDAR. Titles are cut to api.MaxTitleLen characters and
// a missing or non-positive end becomes start plus api.DefaultDuration.
// The UID is kept as the event id; Merge resolves collisions.
func Parse(r io.Reader, loc *time.Location) (Result, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return Result{}, fmt.Errorf("parse calendar: %w", err)
	}
	var res Result
	vevents := cal.Events()
	if len(vevents) == 0 {
		return res, ErrEmpty
	}
	for _, ve := range vevents {
		ev, ok := fromVEvent(ve, loc)
		if !ok {
			res.Skipped++
			continue
		}
		if ve.GetProperty(ical.ComponentPropertyRrule) != nil {
			res.Recurring++
		}
		res.Events = append(res.Events, ev)
	}
	return res, nil
}

func fromVEvent(ve *ical.VEvent, loc *time.Location) (api.Event, bool) {
	var ev api.Event
	p := ve.GetProperty(ical.ComponentPropertySummary)
	if p == nil || strings.TrimSpace(p.Value) == "" {
		return ev, false
	}
	ev.Title = truncateTitle(strings.TrimSpace(p.Value))

	start, err := ve.GetStartAt()
	if err != nil || start.IsZero() {
		return ev, false
	}
	ev.Start = start.In(loc)
	end, err := ve.GetEndAt()
	if err != nil || !end.After(start) {
		end = start.Add(api.DefaultDuration)
	}
	ev.End = end.In(loc)

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		ev.ID = strings.TrimSpace(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Notes = api.StringPtr(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentProperty(PropColor)); p != nil {
		ev.Color = api.StringPtr(strings.TrimSpace(p.Value))
	}
	return ev, true
}

func truncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= api.MaxTitleLen {
		return s
	}
	return string([]rune(s)[:api.MaxTitleLen])
}

// Merge returns the incoming events that are not already present. An event
// whose content hash matches an existing one is a duplicate; an event whose
// id is empty or taken gets a fresh id.
func Merge(existing, incoming []api.Event) (added []api.Event, duplicates int) {
	ids := make(map[string]bool, len(existing)+len(incoming))
	hashes := make(map[string]bool, len(existing)+len(incoming))
	for _, e := range existing {
		ids[e.ID] = true
		hashes[e.Hash()] = true
	}
	for _, e := range incoming {
		h := e.Hash()
		if hashes[h] {
			duplicates++
			continue
		}
		hashes[h] = true
		if e.ID == "" || ids[e.ID] {
			e.ID = api.NewID()
		}
		ids[e.ID] = true
		added = append(added, e)
	}
	return added, duplicates
}
