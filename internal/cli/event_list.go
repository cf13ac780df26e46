package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/internal/util"
	"github.com/mithrel/calpad/pkg/api"
)

// RangeOpts selects the window listed by event list and export.
type RangeOpts struct {
	From string
	To   string
	Days int
}

func addRangeFlags(cmd *cobra.Command, r *RangeOpts) {
	cmd.Flags().StringVar(&r.From, "from", "", "only events ending after this time (\"today\", \"2006-01-02\", \"-1w\", ...)")
	cmd.Flags().StringVar(&r.To, "to", "", "only events starting before this time")
	cmd.Flags().IntVar(&r.Days, "days", 0, "window length in days from --from (default today)")
}

// selectEvents returns the events overlapping the requested window, sorted by
// start. Without any bound every event is returned.
func selectEvents(ctrl *calendar.Controller, r RangeOpts) ([]api.Event, error) {
	now := ctrl.Now()
	from, to, err := util.NormalizeTimeRange(r.From, r.To, now, now.Location())
	if err != nil {
		return nil, err
	}
	if r.Days < 0 {
		return nil, fmt.Errorf("--days must be positive")
	}
	if r.Days > 0 {
		if from.IsZero() {
			from = calendar.StartOfDay(now)
		}
		if to.IsZero() {
			to = from.AddDate(0, 0, r.Days)
		}
	}
	if from.IsZero() && to.IsZero() {
		return ctrl.State().Events, nil
	}
	if to.IsZero() {
		to = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return ctrl.EventsInRange(calendar.Range{From: from, To: to}), nil
}

func newEventListCmd() *cobra.Command {
	var rng RangeOpts
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := resolveOutput(cmd.OutOrStdout(), outputMode, noHeaders)
			if err != nil {
				return err
			}
			events, err := selectEvents(app.Calendar, rng)
			if err != nil {
				return err
			}
			return renderEvents(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), events, opts)
		},
	}
	addRangeFlags(cmd, &rng)
	addOutputFlags(cmd, &outputMode, &noHeaders)
	return cmd
}

func newEventFindCmd() *cobra.Command {
	var outputMode string
	var noHeaders bool
	var limit int
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-search event titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := resolveOutput(cmd.OutOrStdout(), outputMode, noHeaders)
			if err != nil {
				return err
			}
			hits := util.RankEvents(strings.Join(args, " "), app.Calendar.State().Events)
			if limit > 0 && len(hits) > limit {
				hits = hits[:limit]
			}
			if len(hits) == 0 {
				return fmt.Errorf("no events match %q", strings.Join(args, " "))
			}
			return renderEvents(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), hits, opts)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results (0 = all)")
	addOutputFlags(cmd, &outputMode, &noHeaders)
	return cmd
}

func addOutputFlags(cmd *cobra.Command, outputMode *string, noHeaders *bool) {
	cmd.Flags().StringVarP(outputMode, "output", "o", "", "output mode: plain|pretty|json|ndjson|yaml (default pretty on a terminal)")
	cmd.Flags().BoolVar(noHeaders, "no-headers", false, "omit the header row in plain output")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"plain", "pretty", "json", "ndjson", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
}
