package cli

import (
	"time"

	"github.com/alexanderramin/routine/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to the services used by CLI commands.
type App struct {
	Routine service.RoutineService
	History service.HistoryService

	// Now stamps export file names and relative history dates.
	Now func() time.Time

	// IsInteractive reports whether stdin is a terminal. When it is false,
	// commands never prompt and destructive ones require --yes.
	IsInteractive func() bool

	// Confirm asks a yes/no question. Nil uses a huh confirm prompt.
	Confirm func(title string) (bool, error)
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	return confirmPrompt(title)
}

// NewRootCmd creates the top-level "routine" command. Without a subcommand
// it opens the tracker on a terminal and prints the status otherwise.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "routine",
		Short:         "Morning routine step tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTracker(cmd, app)
			}
			return runStatus(cmd, app)
		},
	}

	root.AddCommand(
		newStatusCmd(app),
		newRecordCmd(app),
		newEditCmd(app),
		newResetCmd(app),
		newSaveCmd(app),
		newDailyCmd(app),
		newHistoryCmd(app),
		newTrackCmd(app),
	)

	return root
}
