package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/routine/internal/domain"
	"github.com/alexanderramin/routine/internal/routine"
	"github.com/alexanderramin/routine/internal/service"
)

// FormatStatus renders the current session as a step table with progress.
func FormatStatus(st service.Status) string {
	var b strings.Builder

	b.WriteString(Header("Morning Routine"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n", StateIndicator(st.State), RenderStepProgress(doneSteps(st.Steps)))
	fmt.Fprintf(&b, "%s %s\n\n", Dim("Next:"), Bold(st.Expected.Label()))

	headers := []string{"#", "STEP", "TIME", "DELTA"}
	rows := make([][]string, 0, len(st.Steps))
	highlight := -1
	for i, v := range st.Steps {
		at := Dim("--")
		if v.Recorded {
			at = v.Time.String()
		}
		rows = append(rows, []string{fmt.Sprintf("%d", int(v.Step)), v.Step.Name(), at, FormatDelta(v.Delta)})
		if v.Next {
			highlight = i
		}
	}
	b.WriteString(RenderTable(headers, rows, highlight))

	if st.Total != nil {
		fmt.Fprintf(&b, "\n%s %s\n", Dim("Total:"), StyleBold.Render(st.Total.Long()))
	}
	if !st.Daily.IsZero() {
		b.WriteString("\n")
		b.WriteString(formatDaily(st.Daily))
	}
	return b.String()
}

func doneSteps(views []routine.StepView) domain.Step {
	var last domain.Step
	for _, v := range views {
		if v.Recorded && v.Step > last {
			last = v.Step
		}
	}
	return last
}

func formatDaily(d domain.DailyInputs) string {
	var b strings.Builder
	if d.SleepTime != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Sleep:"), d.SleepTime)
	}
	if d.SleepScore != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Score:"), d.SleepScore)
	}
	if d.Note != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Note:"), d.Note)
	}
	return b.String()
}

// FormatStepResult renders the one-line outcome of recording a step, plus
// the archived summary when the step finished the run.
func FormatStepResult(res routine.StepResult) string {
	if !res.Accepted {
		return StyleRed.Render(res.Rejection.Message()) + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", StyleGreen.Render("✔"), Bold(res.Step.Name()), Dim("at "+res.Time.String()))
	if res.Delta != nil {
		fmt.Fprintf(&b, "  %s", FormatDelta(res.Delta))
	}
	b.WriteString("\n")

	if res.Archived != nil {
		b.WriteString("\n")
		b.WriteString(FormatArchived(*res.Archived))
	}
	return b.String()
}

// FormatArchived renders a single archived run with its breakdown.
func FormatArchived(h domain.HistoryEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s → %s  %s\n", StyleGreen.Render("Routine saved:"), h.Start, h.End, Bold(h.Duration))
	for _, line := range h.Breakdown {
		fmt.Fprintf(&b, "  %s\n", Dim(line))
	}
	return b.String()
}

// FormatHistory renders archived runs newest first as a table.
func FormatHistory(history []domain.HistoryEntry, now time.Time) string {
	if len(history) == 0 {
		return Dim("No routines saved yet.") + "\n"
	}

	var b strings.Builder
	b.WriteString(Header("History"))
	b.WriteString("\n")

	headers := []string{"DATE", "START", "END", "TOTAL", "STEPS", "SLEEP", "NOTE"}
	rows := make([][]string, 0, len(history))
	for _, h := range history {
		steps := fmt.Sprintf("%d/%d", h.StepTimes.Count(), domain.StepCount)
		if !h.Complete {
			steps = StyleYellow.Render(steps)
		}
		sleep := h.SleepTime
		if h.SleepScore != "" {
			sleep = strings.TrimSpace(sleep + " (" + h.SleepScore + ")")
		}
		rows = append(rows, []string{
			HumanDate(h.Date, now),
			h.Start,
			h.End,
			h.HoursMinutes,
			steps,
			sleep,
			Truncate(h.Note, 30),
		})
	}
	b.WriteString(RenderTable(headers, rows, -1))
	return b.String()
}
