package routine

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/alexanderramin/routine/internal/domain"
	"github.com/alexanderramin/routine/internal/repository"
	"github.com/alexanderramin/routine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func TestHistoryCSV(t *testing.T) {
	var times domain.StepTimes
	times.Set(1, testutil.Clock(7, 0))
	times.Set(2, testutil.Clock(7, 5))
	times.Set(4, testutil.Clock(7, 30))
	entry, ok := NewHistoryEntry("id", times, domain.DailyInputs{SleepScore: "80", Note: `said "hi"`}, testutil.At(8, 0))
	require.True(t, ok)

	got := HistoryCSV([]domain.HistoryEntry{entry})

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `"Date","Step","Time","Duration(min)","TotalRoutine(min)","SleepTime","SleepScore","Note"`, lines[0])
	assert.Equal(t, `"2026-03-02","Start wake-up","07 h 00","","30","","80","said ""hi"""`, lines[1])
	assert.Equal(t, `"2026-03-02","Out of bed","07 h 05","5","30","","80","said ""hi"""`, lines[2])
	assert.Equal(t, `"2026-03-02","Finished ready","07 h 30","","30","","80","said ""hi"""`, lines[3],
		"no duration when the previous step is missing")
}

func TestExportCSV_EmptyHistoryHasHeaderOnly(t *testing.T) {
	a := NewArchiver(repository.NewMemoryKVStore())

	got, err := a.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "\n"))
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "routine-history-2026-03-02.csv", ExportFilename(testutil.At(8, 0)))
}
