package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/internal/eventform"
	"github.com/mithrel/calpad/internal/util"
	"github.com/mithrel/calpad/internal/wire"
	"github.com/mithrel/calpad/pkg/api"
)

// newEventCmd defines the parent "event" command.
func newEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"ev"},
		Short:   "Add, list, edit, move and delete events",
	}
	cmd.AddCommand(newEventAddCmd())
	cmd.AddCommand(newEventListCmd())
	cmd.AddCommand(newEventShowCmd())
	cmd.AddCommand(newEventEditCmd())
	cmd.AddCommand(newEventMoveCmd())
	cmd.AddCommand(newEventDeleteCmd())
	cmd.AddCommand(newEventFindCmd())
	return cmd
}

// fieldFlags are the popover fields exposed as flags.
type fieldFlags struct {
	Title string
	At    string
	Notes string
	Color string
}

func addFieldFlags(cmd *cobra.Command, f *fieldFlags) {
	cmd.Flags().StringVar(&f.Title, "title", "", "event title (at most 30 characters)")
	cmd.Flags().StringVar(&f.At, "at", "", "start time: \"2006-01-02 15:04\", \"tomorrow\", \"+2h\", ...")
	cmd.Flags().StringVar(&f.Notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&f.Color, "color", "", "colour from the palette: "+strings.Join(eventform.Palette, ", "))
	_ = cmd.RegisterFlagCompletionFunc("color", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return eventform.Palette, cobra.ShellCompDirectiveNoFileComp
	})
}

// changed reports whether any field flag was passed.
func (f fieldFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"title", "at", "notes", "color"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply forwards every changed flag to the open popover.
func (f fieldFlags) apply(cmd *cobra.Command, ctrl *calendar.Controller, loc *time.Location) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		ctrl.SetField(eventform.FieldTitle, f.Title)
	}
	if changed("at") {
		at, err := util.ParseTimeExpr(f.At, ctrl.Now(), loc)
		if err != nil {
			return err
		}
		at = at.In(loc)
		ctrl.SetField(eventform.FieldDate, at.Format(eventform.DateLayout))
		ctrl.SetField(eventform.FieldTime, at.Format(eventform.TimeLayout))
	}
	if changed("notes") {
		ctrl.SetField(eventform.FieldNotes, f.Notes)
	}
	if changed("color") && !ctrl.SetField(eventform.FieldColor, f.Color) {
		return fmt.Errorf("unknown color %q; choose one of %s", f.Color, strings.Join(eventform.Palette, ", "))
	}
	return nil
}

// rejected turns the controller's last notice into an error.
func rejected(ctrl *calendar.Controller) error {
	if n := ctrl.State().Notice; n != "" {
		return errors.New(n)
	}
	return errors.New(calendar.MsgInvalidForm)
}

// resolveEventID accepts a full id or an unambiguous id prefix.
func resolveEventID(app *wire.App, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("empty event id")
	}
	if _, ok := app.Calendar.Event(arg); ok {
		return arg, nil
	}
	var hits []string
	for _, e := range app.Calendar.State().Events {
		if strings.HasPrefix(e.ID, arg) {
			hits = append(hits, e.ID)
		}
	}
	switch len(hits) {
	case 0:
		return "", fmt.Errorf("event %s not found", arg)
	case 1:
		return hits[0], nil
	default:
		return "", fmt.Errorf("event id prefix %q is ambiguous (%d matches)", arg, len(hits))
	}
}

// nextFullHour is the default start for events added without --at.
func nextFullHour(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, 0, 0, 0, now.Location())
}

// newIDs returns the events in after whose ids are not in before.
func newIDs(before, after []api.Event) []api.Event {
	seen := make(map[string]struct{}, len(before))
	for _, e := range before {
		seen[e.ID] = struct{}{}
	}
	var out []api.Event
	for _, e := range after {
		if _, ok := seen[e.ID]; !ok {
			out = append(out, e)
		}
	}
	return out
}
