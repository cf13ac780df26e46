package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/internal/eventform"
	"github.com/mithrel/calpad/internal/util"
)

func newEventAddCmd() *cobra.Command {
	var fields fieldFlags
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add an event (default start: the next full hour)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctrl := app.Calendar
			now := ctrl.Now()
			loc := now.Location()

			if !cmd.Flags().Changed("title") {
				fields.Title = strings.TrimSpace(strings.Join(args, " "))
				if fields.Title == "" {
					return errors.New("empty title")
				}
			}
			start := nextFullHour(now)
			if fields.At != "" {
				at, err := util.ParseTimeExpr(fields.At, now, loc)
				if err != nil {
					return err
				}
				start = at
			}

			before := app.Calendar.State().Events
			if !ctrl.SelectSlot(calendar.Slot{Start: start}) {
				return rejected(ctrl)
			}
			defer ctrl.ClosePopover()
			ctrl.SetField(eventform.FieldTitle, fields.Title)
			if err := fields.apply(cmd, ctrl, loc); err != nil {
				return err
			}
			if !ctrl.Save(cmd.Context()) {
				return rejected(ctrl)
			}
			for _, e := range newIDs(before, app.Calendar.State().Events) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.ID, e.Title)
			}
			return nil
		},
	}
	addFieldFlags(cmd, &fields)
	return cmd
}
