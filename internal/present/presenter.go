package present

import (
	"io"
	"strings"

	"github.com/mithrel/calpad/internal/present/format"
	"github.com/mithrel/calpad/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeYAML
	ModeTUI
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
}

var modeNames = map[string]Mode{
	"plain":  ModePlain,
	"pretty": ModePretty,
	"json":   ModeJSON,
	"ndjson": ModeNDJSON,
	"yaml":   ModeYAML,
	"tui":    ModeTUI,
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "yaml", "tui".
func ParseMode(s string) (Mode, bool) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return ModePlain, false
	}
	return m, true
}

func (m Mode) String() string {
	for name, v := range modeNames {
		if v == m {
			return name
		}
	}
	return "plain"
}

// RenderEvents renders a list of events according to options. ModeTUI is
// handled by the caller, which owns the interactive program; here it falls
// back to pretty output.
func RenderEvents(w io.Writer, events []api.Event, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONEvents(w, events, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONEvents(w, events)
	case ModeYAML:
		return format.WriteYAMLEvents(w, events)
	case ModePretty, ModeTUI:
		return format.WritePrettyEvents(w, events)
	default:
		return format.WritePlainEvents(w, events, opts.Headers)
	}
}

// RenderEvent renders a single event according to options.
func RenderEvent(w io.Writer, e api.Event, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONEvent(w, e, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONEvent(w, e)
	case ModeYAML:
		return format.WriteYAMLEvent(w, e)
	case ModePretty, ModeTUI:
		return format.WritePrettyEvent(w, e)
	default:
		return format.WritePlainEvent(w, e, opts.Headers)
	}
}
