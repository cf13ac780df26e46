package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/pkg/api"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [month|week|day|agenda]",
		Short: "Show or change the calendar's view",
		Long:  "Without an argument, print the stored view, its toolbar label and visible range.",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var names []string
			for _, v := range api.Views() {
				names = append(names, string(v))
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := getApp(cmd).Calendar
			if len(args) == 1 {
				c, err := calendar.ParseCommand(string(calendar.CmdSetView) + " " + strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if !ctrl.Dispatch(cmd.Context(), c) {
					return fmt.Errorf("could not switch to %s", c.View)
				}
			}
			st := ctrl.State()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s – %s\n",
				st.View, st.Label,
				st.Range.From.Format("2006-01-02"),
				st.Range.To.AddDate(0, 0, -1).Format("2006-01-02"))
			return nil
		},
	}
	return cmd
}
