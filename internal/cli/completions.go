package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/calpad/internal/config"
	"github.com/mithrel/calpad/internal/util"
	"github.com/mithrel/calpad/internal/wire"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "bash",
		Short: "Generate Bash completions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "zsh",
		Short: "Generate Zsh completions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "fish",
		Short: "Generate Fish completions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	})

	return cmd
}

// maxCompletions caps the id candidates offered to the shell.
const maxCompletions = 20

// completeEventIDs offers event ids described by their titles. Completion
// bypasses PersistentPreRunE, so it opens its own app.
func completeEventIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	v := viper.New()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	}
	if err := config.Load(ctx, v); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	applyConfigFlagOverrides(cmd, v, map[string]string{"storage": "storage.url", "data-dir": "data_dir"})
	app, err := wire.BuildApp(ctx, v)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	app.Log.SetOutput(io.Discard)
	defer app.Close()

	titles := make(map[string]string)
	var ids []string
	for _, e := range app.Calendar.State().Events {
		titles[e.ID] = e.Title
		ids = append(ids, e.ID)
	}
	var out []string
	for _, id := range util.ScoreCompletions(toComplete, ids, maxCompletions) {
		out = append(out, id+"\t"+titles[id])
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
