package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/calpad/pkg/api"
)

// WritePrettyEvent renders a single event with markdown formatting using glamour.
func WritePrettyEvent(w io.Writer, e api.Event) error {
	md := fmt.Sprintf(`# %s

> **ID:** %s
>
> **When:** %s → %s (%s)
>
> **Color:** %s

---

%s
`, e.Title, e.ID, e.Start.Local().Format(TimeLayout), e.End.Local().Format("15:04"),
		e.Duration(), e.ColorOr("default"), strings.TrimSpace(e.NotesText()))
	return renderMarkdown(w, md)
}

// WritePrettyEvents renders an agenda: one heading per day, one bullet per event.
func WritePrettyEvents(w io.Writer, events []api.Event) error {
	var b strings.Builder
	if len(events) == 0 {
		b.WriteString("_No events._\n")
	}
	day := ""
	for _, e := range events {
		start := e.Start.Local()
		if d := start.Format("Monday, 02 January 2006"); d != day {
			day = d
			fmt.Fprintf(&b, "\n## %s\n\n", d)
		}
		fmt.Fprintf(&b, "- **%s–%s** %s `%s`\n",
			start.Format("15:04"), e.End.Local().Format("15:04"), mdEscape(e.Title), e.ID)
	}
	return renderMarkdown(w, b.String())
}

func mdEscape(s string) string {
	r := strings.NewReplacer("*", "\\*", "_", "\\_", "`", "\\`", "[", "\\[")
	return r.Replace(s)
}

func renderMarkdown(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
