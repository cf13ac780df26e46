package calendar

import (
	"time"

	"github.com/mithrel/calpad/pkg/api"
)

// step moves t by n units of the view's granularity. Month steps keep the
// day of month when possible and clamp to the last day otherwise.
func step(v api.View, t time.Time, n int) time.Time {
	switch v {
	case api.ViewMonth:
		return addMonths(t, n)
	case api.ViewWeek:
		return t.AddDate(0, 0, 7*n)
	default:
		return t.AddDate(0, 0, n)
	}
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}

// StartOfDay returns midnight of t's calendar day in t's zone.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the first day of the week containing t.
func StartOfWeek(t time.Time, first time.Weekday) time.Time {
	day := StartOfDay(t)
	back := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// Range is a half-open interval [From, To).
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside r.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// visibleRange is the window each view lays out around anchor.
func visibleRange(v api.View, anchor time.Time, weekStart time.Weekday, agendaDays int) Range {
	switch v {
	case api.ViewMonth:
		y, m, _ := anchor.Date()
		from := StartOfWeek(time.Date(y, m, 1, 0, 0, 0, 0, anchor.Location()), weekStart)
		return Range{From: from, To: from.AddDate(0, 0, 42)}
	case api.ViewWeek:
		from := StartOfWeek(anchor, weekStart)
		return Range{From: from, To: from.AddDate(0, 0, 7)}
	case api.ViewAgenda:
		from := StartOfDay(anchor)
		return Range{From: from, To: from.AddDate(0, 0, agendaDays)}
	default:
		from := StartOfDay(anchor)
		return Range{From: from, To: from.AddDate(0, 0, 1)}
	}
}

// toolbarLabel is the heading shown above the grid.
func toolbarLabel(v api.View, anchor time.Time) string {
	if v == api.ViewDay {
		return anchor.Format("02 January 2006")
	}
	return anchor.Format("January 2006")
}

// beforeMinute reports whether t is strictly before now at minute precision.
func beforeMinute(t, now time.Time) bool {
	return t.Truncate(time.Minute).Before(now.Truncate(time.Minute))
}
