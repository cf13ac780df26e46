package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/internal/config"
	"github.com/mithrel/calpad/internal/present/tui"
	"github.com/mithrel/calpad/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// Execute is the entrypoint: it builds the root cobra.Command
// and calls its Execute() method to run the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	var verbose bool
	sched := tui.NewScheduler()

	cmd := &cobra.Command{
		Use:           "calpad",
		Short:         "calpad: a terminal calendar for time-blocked events",
		Long:          "Running calpad without a subcommand opens the interactive calendar.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env only fills variables that are not already set.
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, map[string]string{
				"storage":    "storage.url",
				"data-dir":   "data_dir",
				"week-start": "calendar.week_start",
			})
			if err := config.CheckConfigValidity(v); err != nil {
				return err
			}
			// Wire up the app and stash it in context for subcommands.
			app, err := wire.BuildApp(cmd.Context(), v, wire.WithScheduler(sched))
			if err != nil {
				return err
			}
			if !verbose {
				app.Log.SetOutput(io.Discard)
			}
			ctx := context.WithValue(cmd.Context(), appKey, app)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, getApp(cmd), sched)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml|yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log store and calendar activity to stderr")
	cmd.PersistentFlags().String("storage", "", "key-value store URL (sqlite://<path> or mem://)")
	cmd.PersistentFlags().String("data-dir", "", "directory for local state")
	cmd.PersistentFlags().String("week-start", "", "first day of the week")

	cmd.AddCommand(newEventCmd())
	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

// runTUI opens the interactive calendar. The app logger moves to log.file
// for the lifetime of the alternate screen, or is silenced.
func runTUI(cmd *cobra.Command, app *wire.App, sched *tui.Scheduler) error {
	prev := app.Log.Writer()
	defer app.Log.SetOutput(prev)
	if path := strings.TrimSpace(app.Cfg.GetString("log.file")); path != "" {
		f, err := tea.LogToFile(path, "calpad")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		app.Log.SetOutput(f)
	} else {
		app.Log.SetOutput(io.Discard)
	}

	return tui.Run(cmd.Context(), app.Calendar, tui.Options{
		Popover: calendar.Size{
			W: app.Cfg.GetInt("popover.width"),
			H: app.Cfg.GetInt("popover.height"),
		},
		Scheduler: sched,
	})
}
