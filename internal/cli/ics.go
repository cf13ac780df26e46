package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/calpad/internal/ics"
	"github.com/mithrel/calpad/pkg/api"
)

func newExportCmd() *cobra.Command {
	var rng RangeOpts
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events as an iCalendar (.ics) file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			events, err := selectEvents(app.Calendar, rng)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return errors.New("no events to export")
			}
			if file == "" || file == "-" {
				return ics.Export(cmd.OutOrStdout(), events, time.Now())
			}
			if err := exportFile(file, events); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d events to %s\n", len(events), file)
			return nil
		},
	}
	addRangeFlags(cmd, &rng)
	cmd.Flags().StringVarP(&file, "file", "f", "", "output path (default stdout)")
	return cmd
}

// exportFile writes events to path and reports write and close errors.
func exportFile(path string, events []api.Event) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := ics.Export(f, events, time.Now()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import [file.ics]",
		Short: "Import events from an iCalendar (.ics) file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				file = args[0]
			}
			if strings.TrimSpace(file) == "" {
				return fmt.Errorf("--file is required")
			}
			app := getApp(cmd)

			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			res, err := ics.Parse(r, app.Calendar.Now().Location())
			if err != nil {
				return err
			}
			added, dups := app.Calendar.Import(cmd.Context(), res.Events)
			app.Log.Printf("import file=%s added=%d duplicates=%d skipped=%d recurring=%d",
				file, len(added), dups, res.Skipped, res.Recurring)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d events (%d duplicates, %d skipped).\n", len(added), dups, res.Skipped)
			if res.Recurring > 0 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d recurring events were imported as a single occurrence\n", res.Recurring)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the .ics file (- for stdin)")
	return cmd
}
