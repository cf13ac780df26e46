package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/pkg/api"
)

func newEventDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:               "delete <id...>",
		Aliases:           []string{"rm"},
		Short:             "Delete events",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeEventIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctrl := app.Calendar
			var targets []api.Event
			for _, arg := range args {
				id, err := resolveEventID(app, arg)
				if err != nil {
					return err
				}
				ev, _ := ctrl.Event(id)
				targets = append(targets, ev)
			}

			title := fmt.Sprintf("Delete %q?", targets[0].Title)
			if len(targets) > 1 {
				title = fmt.Sprintf("Delete %d events?", len(targets))
			}
			var desc []string
			for _, e := range targets {
				desc = append(desc, e.Start.Format("Mon 02 Jan 15:04")+"  "+e.Title)
			}
			if err := confirmDelete(title, strings.Join(desc, "\n"), yes); err != nil {
				return err
			}

			for _, e := range targets {
				if !ctrl.SelectEvent(calendar.EventClick{EventID: e.ID}) {
					return fmt.Errorf("event %s not found", e.ID)
				}
				ctrl.Delete(cmd.Context())
			}
			if len(targets) == 1 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Event %s deleted.\n", targets[0].ID)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d events.\n", len(targets))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirmDelete(title, desc string, yes bool) error {
	if yes {
		return nil
	}
	if !term.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("confirmation required; rerun with --yes")
	}
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("aborted")
	}
	return nil
}
