package format

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mithrel/calpad/pkg/api"
)

type yamlEvent struct {
	ID    string    `yaml:"id"`
	Title string    `yaml:"title"`
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
	Color string    `yaml:"color,omitempty"`
	Notes string    `yaml:"notes,omitempty"`
}

func toYAML(e api.Event) yamlEvent {
	return yamlEvent{
		ID:    e.ID,
		Title: e.Title,
		Start: e.Start,
		End:   e.End,
		Color: e.ColorOr(""),
		Notes: e.NotesText(),
	}
}

// WriteYAMLEvents writes events as a YAML sequence.
func WriteYAMLEvents(w io.Writer, events []api.Event) error {
	out := make([]yamlEvent, 0, len(events))
	for _, e := range events {
		out = append(out, toYAML(e))
	}
	return encodeYAML(w, out)
}

// WriteYAMLEvent writes one event as a YAML mapping.
func WriteYAMLEvent(w io.Writer, e api.Event) error {
	return encodeYAML(w, toYAML(e))
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
