package calendar

import (
	"time"

	"github.com/mithrel/calpad/internal/eventform"
	"github.com/mithrel/calpad/pkg/api"
)

// PopoverState describes the open edit form, if any.
type PopoverState struct {
	Open     bool
	Mode     Mode
	EventID  string
	Seed     time.Time
	Position Point
	Fields   eventform.Fields
	Valid    bool
}

// State is a render snapshot of the controller.
type State struct {
	View    api.View
	Anchor  time.Time
	Label   string
	Range   Range
	Events  []api.Event
	Popover PopoverState
	Notice  string
}
