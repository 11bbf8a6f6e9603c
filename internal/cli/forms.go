package cli

import (
	"fmt"

	"github.com/alexanderramin/routine/internal/cli/formatter"
	"github.com/alexanderramin/routine/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// routineHuhTheme returns a huh theme using the formatter palette.
func routineHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func confirmPrompt(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(routineHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}

// clockInput returns a huh.Input validated as a wall clock time.
func clockInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("07 h 05").
		Value(value).
		Validate(validateClockTime)
}

func promptClockTime(step domain.Step) (string, error) {
	var raw string
	err := huh.NewForm(
		huh.NewGroup(
			clockInput(fmt.Sprintf("New time for %d. %s", int(step), step.Name()), &raw),
		),
	).WithTheme(routineHuhTheme()).WithShowHelp(false).Run()
	return raw, err
}

// dailyForm edits d in place.
func dailyForm(d *domain.DailyInputs) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Sleep Time").Placeholder("7h30").Value(&d.SleepTime),
			huh.NewInput().Title("Sleep Score").Placeholder("85").Value(&d.SleepScore),
			huh.NewText().Title("Note").Value(&d.Note).Lines(3),
		),
	).WithTheme(routineHuhTheme()).WithShowHelp(false)
}

func validateClockTime(s string) error {
	_, err := domain.ParseClockTime(s)
	return err
}
