package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/routine/internal/cli/formatter"
	"github.com/alexanderramin/routine/internal/domain"
	"github.com/alexanderramin/routine/internal/routine"
	"github.com/alexanderramin/routine/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTrackCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Open the interactive step tracker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTracker(cmd, app)
		},
	}
}

func runTracker(cmd *cobra.Command, app *App) error {
	p := tea.NewProgram(
		newTrackerModel(cmd.Context(), app),
		tea.WithContext(cmd.Context()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err := p.Run()
	return err
}

// ── Messages ─────────────────────────────────────────────────────────────────

type statusLoadedMsg struct {
	status service.Status
}

type stepRecordedMsg struct {
	res routine.StepResult
	err error
}

type routineSavedMsg struct {
	entry *domain.HistoryEntry
	err   error
}

type routineResetMsg struct {
	err error
}

// ── Key bindings ─────────────────────────────────────────────────────────────

type trackerKeys struct {
	Record key.Binding
	Step   key.Binding
	Save   key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultTrackerKeys() trackerKeys {
	return trackerKeys{
		Record: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "record next")),
		Step: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"),
			key.WithHelp("1-0", "record step"),
		),
		Save:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save now")),
		Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r r", "reset")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k trackerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Save, k.Help, k.Quit}
}

func (k trackerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Record, k.Step},
		{k.Save, k.Reset},
		{k.Help, k.Quit},
	}
}

// ── Model ────────────────────────────────────────────────────────────────────

// trackerModel is the full-screen step tracker. It keeps no routine state
// of its own and re-reads the status after every mutation.
type trackerModel struct {
	ctx    context.Context
	app    *App
	keys   trackerKeys
	help   help.Model
	status service.Status
	notice string
	err    error

	// resetArmed is set by the first reset key press; the second one resets.
	resetArmed bool
}

func newTrackerModel(ctx context.Context, app *App) *trackerModel {
	return &trackerModel{
		ctx:  ctx,
		app:  app,
		keys: defaultTrackerKeys(),
		help: help.New(),
	}
}

func (m *trackerModel) Init() tea.Cmd {
	return m.loadStatus()
}

func (m *trackerModel) loadStatus() tea.Cmd {
	ctx, svc := m.ctx, m.app.Routine
	return func() tea.Msg {
		return statusLoadedMsg{status: svc.Status(ctx)}
	}
}

func (m *trackerModel) record(step domain.Step) tea.Cmd {
	ctx, svc := m.ctx, m.app.Routine
	return func() tea.Msg {
		if step == 0 {
			res, err := svc.RecordNext(ctx)
			return stepRecordedMsg{res: res, err: err}
		}
		res, err := svc.Record(ctx, step)
		return stepRecordedMsg{res: res, err: err}
	}
}

func (m *trackerModel) save() tea.Cmd {
	ctx, svc := m.ctx, m.app.Routine
	return func() tea.Msg {
		entry, err := svc.Save(ctx)
		return routineSavedMsg{entry: entry, err: err}
	}
}

func (m *trackerModel) reset() tea.Cmd {
	ctx, svc := m.ctx, m.app.Routine
	return func() tea.Msg {
		return routineResetMsg{err: svc.Reset(ctx)}
	}
}

func (m *trackerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case statusLoadedMsg:
		m.status = msg.status
		return m, nil

	case stepRecordedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = strings.TrimRight(formatter.FormatStepResult(msg.res), "\n")
		return m, m.loadStatus()

	case routineSavedMsg:
		switch {
		case errors.Is(msg.err, routine.ErrNotEnoughSteps):
			m.notice = formatter.StyleYellow.Render("Record at least two steps before saving.")
		case msg.err != nil:
			m.err = msg.err
			return m, nil
		default:
			m.err = nil
			m.notice = strings.TrimRight(formatter.FormatArchived(*msg.entry), "\n")
		}
		return m, m.loadStatus()

	case routineResetMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = formatter.Dim("Routine reset.")
		return m, m.loadStatus()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *trackerModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Reset) {
		if m.resetArmed {
			m.resetArmed = false
			return m, m.reset()
		}
		m.resetArmed = true
		m.notice = formatter.StyleYellow.Render("Press r again to discard the current routine.")
		return m, nil
	}
	m.resetArmed = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Record):
		return m, m.record(0)
	case key.Matches(msg, m.keys.Step):
		return m, m.record(digitStep(msg.String()))
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	}
	return m, nil
}

// digitStep maps a number key to its step, with 0 standing for the tenth.
func digitStep(k string) domain.Step {
	if k == "0" {
		return domain.LastStep
	}
	return domain.Step(k[0] - '0')
}

func (m *trackerModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.FormatStatus(m.status))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
