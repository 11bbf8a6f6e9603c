package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/routine/internal/cli/formatter"
	"github.com/alexanderramin/routine/internal/domain"
	"github.com/alexanderramin/routine/internal/routine"
	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard today's recorded steps without saving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmed(app, yes, "Discard the current routine?")
			if err != nil || !ok {
				return err
			}
			if err := app.Routine.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Routine reset."))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Archive the current routine even if it is unfinished",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := app.Routine.Save(cmd.Context())
			if errors.Is(err, routine.ErrNotEnoughSteps) {
				return errors.New("record at least two steps before saving")
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatArchived(*entry))
			return nil
		},
	}
}

func newDailyCmd(app *App) *cobra.Command {
	var d domain.DailyInputs

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Set sleep time, sleep score and a note for today",
		Long: "Set the daily inputs attached to the routine when it is archived.\n" +
			"With no flags on a terminal, a form is shown.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current := app.Routine.Status(ctx).Daily

			flags := cmd.Flags()
			if !flags.Changed("sleep-time") && !flags.Changed("sleep-score") && !flags.Changed("note") {
				if !app.interactive() {
					fmt.Fprint(cmd.OutOrStdout(), formatDailyPlain(current))
					return nil
				}
				d = current
				if err := dailyForm(&d).Run(); err != nil {
					return err
				}
			} else {
				next := current
				if flags.Changed("sleep-time") {
					next.SleepTime = d.SleepTime
				}
				if flags.Changed("sleep-score") {
					next.SleepScore = d.SleepScore
				}
				if flags.Changed("note") {
					next.Note = d.Note
				}
				d = next
			}

			if err := app.Routine.SetDailyInputs(ctx, d); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("✔")+" Daily inputs saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&d.SleepTime, "sleep-time", "", "Hours slept, e.g. 7h30")
	cmd.Flags().StringVar(&d.SleepScore, "sleep-score", "", "Sleep score from your tracker")
	cmd.Flags().StringVar(&d.Note, "note", "", "Free-form note")

	return cmd
}

func formatDailyPlain(d domain.DailyInputs) string {
	if d.IsZero() {
		return formatter.Dim("No daily inputs set.") + "\n"
	}
	return fmt.Sprintf("Sleep time:  %s\nSleep score: %s\nNote:        %s\n", d.SleepTime, d.SleepScore, d.Note)
}

// confirmed resolves a destructive action's confirmation. --yes always
// passes; otherwise a terminal is required to ask.
func confirmed(app *App, yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() {
		return false, errors.New("refusing without --yes when not running in a terminal")
	}
	return app.confirm(title)
}
