package api

import "strings"

// View is one of the calendar grid layouts.
type View string

const (
	ViewMonth  View = "month"
	ViewWeek   View = "week"
	ViewDay    View = "day"
	ViewAgenda View = "agenda"
)

// DefaultView is used when no preference has been stored.
const DefaultView = ViewMonth

// Views lists every view in toolbar order.
func Views() []View {
	return []View{ViewMonth, ViewWeek, ViewDay, ViewAgenda}
}

// ParseView parses a view name case-insensitively.
func ParseView(s string) (View, bool) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewMonth:
		return ViewMonth, true
	case ViewWeek:
		return ViewWeek, true
	case ViewDay:
		return ViewDay, true
	case ViewAgenda:
		return ViewAgenda, true
	default:
		return DefaultView, false
	}
}

// Label is the capitalised toolbar caption.
func (v View) Label() string {
	if v == "" {
		return ""
	}
	return strings.ToUpper(string(v[:1])) + string(v[1:])
}
