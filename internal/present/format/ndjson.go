package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/calpad/pkg/api"
)

// WriteNDJSONEvents writes events as newline-delimited JSON objects.
func WriteNDJSONEvents(w io.Writer, events []api.Event) error {
	enc := json.NewEncoder(w)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// WriteNDJSONEvent writes a single event as one JSON line.
func WriteNDJSONEvent(w io.Writer, e api.Event) error {
	return json.NewEncoder(w).Encode(e)
}
