// Package ics converts events to and from iCalendar (RFC 5545) documents.
package ics

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/mithrel/calpad/pkg/api"
)

// ProductID is written as the PRODID of exported calendars.
const ProductID = "-//calpad//EN"

// PropColor is the RFC 7986 colour property.
const PropColor = "COLOR"

// Export writes events as a single VCALENDAR. stamp becomes every DTSTAMP.
func Export(w io.Writer, events []api.Event, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	for _, e := range events {
		cal.Children = append(cal.Children, toVEvent(e, stamp))
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toVEvent(e api.Event, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.ID)
	ve.Props.SetText(ical.PropSummary, e.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())
	if notes := e.NotesText(); notes != "" {
		ve.Props.SetText(ical.PropDescription, notes)
	}
	if c := e.ColorOr(""); c != "" {
		ve.Props.SetText(PropColor, c)
	}
	return ve
}
