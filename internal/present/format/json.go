package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/calpad/pkg/api"
)

func WriteJSONEvents(w io.Writer, events []api.Event, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if events == nil {
		events = []api.Event{}
	}
	return enc.Encode(events)
}

func WriteJSONEvent(w io.Writer, e api.Event, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(e)
}
