package routine

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/routine/internal/domain"
)

var csvHeader = []string{
	"Date", "Step", "Time", "Duration(min)", "TotalRoutine(min)", "SleepTime", "SleepScore", "Note",
}

// ExportFilename is the default file name for an export made at t.
func ExportFilename(t time.Time) string {
	return "routine-history-" + t.Format(domain.DateLayout) + ".csv"
}

// ExportCSV renders the history log with one row per recorded step.
func (a *Archiver) ExportCSV(ctx context.Context) (string, error) {
	history, err := a.History(ctx)
	if err != nil {
		return "", err
	}
	return HistoryCSV(history), nil
}

// HistoryCSV renders entries in order. Every field is double-quoted with
// embedded quotes doubled. Duration(min) is the time since the previous
// step and is empty when that step has no recorded time.
func HistoryCSV(history []domain.HistoryEntry) string {
	var b strings.Builder
	writeCSVRow(&b, csvHeader)
	for _, h := range history {
		total := strconv.Itoa(h.TotalMinutes)
		for _, step := range domain.Steps() {
			at, ok := h.StepTimes.Get(step)
			if !ok {
				continue
			}
			dur := ""
			if d, ok := h.StepTimes.StepDelta(step); ok {
				dur = strconv.Itoa(d.Minutes)
			}
			writeCSVRow(&b, []string{
				h.Date, step.Name(), at.String(), dur, total, h.SleepTime, h.SleepScore, h.Note,
			})
		}
	}
	return b.String()
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
