package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/routine/internal/cli/formatter"
	"github.com/alexanderramin/routine/internal/routine"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse, export or clear archived routines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, app)
		},
	}

	cmd.AddCommand(
		newHistoryListCmd(app),
		newHistoryExportCmd(app),
		newHistoryClearCmd(app),
	)

	return cmd
}

func newHistoryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List archived routines, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, app)
		},
	}
}

func runHistoryList(cmd *cobra.Command, app *App) error {
	history, err := app.History.List(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(history, app.now()))
	return nil
}

func newHistoryExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the history as CSV",
		Long:  "Write the history as CSV, one row per recorded step. Use --out - to write to stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			csv, err := app.History.ExportCSV(cmd.Context())
			if err != nil {
				return err
			}
			if out == "-" {
				fmt.Fprint(cmd.OutOrStdout(), csv)
				return nil
			}
			if out == "" {
				out = routine.ExportFilename(app.now())
			}
			if err := os.WriteFile(out, []byte(csv), 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported history to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default routine-history-DATE.csv)")

	return cmd
}

func newHistoryClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved routines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmed(app, yes, "Delete all saved routines?")
			if err != nil || !ok {
				return err
			}
			if err := app.History.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("History cleared."))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
