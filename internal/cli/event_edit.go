package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/internal/editor"
	"github.com/mithrel/calpad/internal/eventform"
	"github.com/mithrel/calpad/internal/present"
	"github.com/mithrel/calpad/internal/present/format"
	"github.com/mithrel/calpad/internal/util"
)

func newEventShowCmd() *cobra.Command {
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Display an event",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeEventIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			id, err := resolveEventID(app, args[0])
			if err != nil {
				return err
			}
			opts, err := resolveOutput(cmd.OutOrStdout(), outputMode, noHeaders)
			if err != nil {
				return err
			}
			ev, ok := app.Calendar.Event(id)
			if !ok {
				return fmt.Errorf("event %s not found", id)
			}
			return present.RenderEvent(cmd.OutOrStdout(), ev, opts)
		},
	}
	addOutputFlags(cmd, &outputMode, &noHeaders)
	return cmd
}

func newEventEditCmd() *cobra.Command {
	var fields fieldFlags
	var useEditor bool
	cmd := &cobra.Command{
		Use:               "edit <id>",
		Short:             "Change an event's title, start, notes or colour (duration is kept)",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeEventIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctrl := app.Calendar
			id, err := resolveEventID(app, args[0])
			if err != nil {
				return err
			}
			if !useEditor && !fields.changed(cmd) {
				return errors.New("nothing to change; pass --title, --at, --notes, --color or --editor")
			}
			if !ctrl.SelectEvent(calendar.EventClick{EventID: id}) {
				return fmt.Errorf("event %s not found", id)
			}
			defer ctrl.ClosePopover()
			if err := fields.apply(cmd, ctrl, ctrl.Now().Location()); err != nil {
				return err
			}
			if useEditor {
				changed, err := editEventInEditor(ctrl)
				if err != nil {
					return err
				}
				if !changed && !fields.changed(cmd) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No edits; event unchanged.")
					return nil
				}
			}
			if !ctrl.Save(cmd.Context()) {
				return rejected(ctrl)
			}
			ev, _ := ctrl.Event(id)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ev.ID, ev.Title)
			return nil
		},
	}
	addFieldFlags(cmd, &fields)
	cmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "edit the event in $EDITOR")
	return cmd
}

// editEventInEditor round-trips the open popover's fields through $EDITOR.
func editEventInEditor(ctrl *calendar.Controller) (bool, error) {
	p := ctrl.State().Popover
	loc := ctrl.Now().Location()
	draft := editor.Draft{Title: p.Fields.Title, Color: p.Fields.Color, Notes: p.Fields.Notes}
	if at, err := time.ParseInLocation(eventform.DateLayout+" "+eventform.TimeLayout, p.Fields.Date+" "+p.Fields.Time, loc); err == nil {
		draft.At = at.Format(format.TimeLayout)
	}
	path, err := editor.PathForID(p.EventID)
	if err != nil {
		return false, err
	}
	defer os.Remove(path)
	out, changed, err := editor.OpenAt(path, []byte(editor.ComposeContent(draft)))
	if err != nil || !changed {
		return false, err
	}
	d := editor.ParseEdited(string(out))
	ctrl.SetField(eventform.FieldTitle, d.Title)
	ctrl.SetField(eventform.FieldNotes, d.Notes)
	if d.At != draft.At {
		at, err := util.ParseTimeExpr(d.At, ctrl.Now(), loc)
		if err != nil {
			return false, err
		}
		ctrl.SetField(eventform.FieldDate, at.Format(eventform.DateLayout))
		ctrl.SetField(eventform.FieldTime, at.Format(eventform.TimeLayout))
	}
	if d.Color != draft.Color && !ctrl.SetField(eventform.FieldColor, d.Color) {
		return false, fmt.Errorf("unknown color %q", d.Color)
	}
	return true, nil
}

func newEventMoveCmd() *cobra.Command {
	var at, by string
	var dur time.Duration
	cmd := &cobra.Command{
		Use:               "move <id>",
		Short:             "Reschedule an event with --at or shift it with --by",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeEventIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctrl := app.Calendar
			id, err := resolveEventID(app, args[0])
			if err != nil {
				return err
			}
			ev, ok := ctrl.Event(id)
			if !ok {
				return fmt.Errorf("event %s not found", id)
			}
			if at != "" && by != "" {
				return errors.New("choose either --at or --by")
			}
			loc := ctrl.Now().Location()
			start := ev.Start
			switch {
			case at != "":
				if start, err = util.ParseTimeExpr(at, ctrl.Now(), loc); err != nil {
					return err
				}
			case by != "":
				// Offsets are relative to the event's current start.
				if start, err = util.ParseTimeExpr(by, ev.Start, loc); err != nil {
					return err
				}
			case dur == 0:
				return errors.New("nothing to change; pass --at, --by or --duration")
			}
			length := ev.Duration()
			if dur != 0 {
				length = dur
			}
			if !ctrl.Drag(cmd.Context(), calendar.EventDrag{EventID: id, NewStart: start, NewEnd: start.Add(length)}) {
				return rejected(ctrl)
			}
			ev, _ = ctrl.Event(id)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", ev.ID, ev.Start.Format(time.RFC3339), ev.End.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "new start time")
	cmd.Flags().StringVar(&by, "by", "", "shift relative to the current start (\"+1d\", \"-30m\", ...)")
	cmd.Flags().DurationVar(&dur, "duration", 0, "new length (default: keep the current length)")
	return cmd
}
