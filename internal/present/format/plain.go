package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/calpad/pkg/api"
)

// TimeLayout is how instants are printed in plain and pretty output.
const TimeLayout = "2006-01-02 15:04"

// TSV columns: id, start, end, title, color, notes
var headerLine = "id\tstart\tend\ttitle\tcolor\tnotes\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func plainLine(e api.Event) string {
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\n",
		esc(e.ID),
		e.Start.Local().Format(TimeLayout),
		e.End.Local().Format(TimeLayout),
		esc(e.Title),
		esc(e.ColorOr("")),
		esc(e.NotesText()))
}

func WritePlainEvents(w io.Writer, events []api.Event, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, e := range events {
		_, _ = io.WriteString(tw, plainLine(e))
	}
	return tw.Flush()
}

func WritePlainEvent(w io.Writer, e api.Event, headers bool) error {
	return WritePlainEvents(w, []api.Event{e}, headers)
}
