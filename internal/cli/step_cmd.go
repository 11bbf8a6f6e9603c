package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/routine/internal/cli/formatter"
	"github.com/alexanderramin/routine/internal/domain"
	"github.com/alexanderramin/routine/internal/routine"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newRecordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "record [STEP]",
		Short: "Record a step at the current time",
		Long:  "Record STEP (1-10) at the current time. Without STEP, the next expected step is recorded.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				res routine.StepResult
				err error
			)
			if len(args) == 0 {
				res, err = app.Routine.RecordNext(cmd.Context())
			} else {
				step, perr := parseStepArg(args[0])
				if perr != nil {
					return perr
				}
				res, err = app.Routine.Record(cmd.Context(), step)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStepResult(res))
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var at clockFlag

	cmd := &cobra.Command{
		Use:   "edit STEP [TIME]",
		Short: "Correct the time of a recorded step",
		Long: "Overwrite the time of an already recorded step. Times are written as \"07 h 05\" or \"7:05\"\n" +
			"and may be given as TIME or --at. On a terminal a missing time is prompted for.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := parseStepArg(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				if err := at.Set(args[1]); err != nil {
					return err
				}
			}

			if !at.set {
				if !app.interactive() {
					return errors.New("a time is required when not running in a terminal")
				}
				raw, err := promptClockTime(step)
				if err != nil {
					return err
				}
				if err := at.Set(raw); err != nil {
					return err
				}
			}

			if err := app.Routine.Edit(cmd.Context(), step, at.value); err != nil {
				if errors.Is(err, routine.ErrStepNotRecorded) {
					return fmt.Errorf("step %d has not been recorded yet", int(step))
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s set to %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(step.Name()), at.value.String())
			return nil
		},
	}

	cmd.Flags().Var(&at, "at", "New time for the step (07 h 05 or 7:05)")

	return cmd
}

func parseStepArg(arg string) (domain.Step, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("step must be a number from %d to %d", int(domain.FirstStep), int(domain.LastStep))
	}
	return domain.ParseStep(n)
}

// clockFlag parses a wall clock time flag.
type clockFlag struct {
	value domain.ClockTime
	set   bool
}

var _ pflag.Value = (*clockFlag)(nil)

func (f *clockFlag) String() string {
	if !f.set {
		return ""
	}
	return f.value.String()
}

func (f *clockFlag) Set(s string) error {
	c, err := domain.ParseClockTime(s)
	if err != nil {
		return err
	}
	f.value, f.set = c, true
	return nil
}

func (f *clockFlag) Type() string { return "time" }
