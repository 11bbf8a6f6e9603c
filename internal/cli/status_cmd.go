package cli

import (
	"fmt"

	"github.com/alexanderramin/routine/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's recorded steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, app)
		},
	}
}

func runStatus(cmd *cobra.Command, app *App) error {
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(app.Routine.Status(cmd.Context())))
	return nil
}
