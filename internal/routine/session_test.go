package routine

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/routine/internal/domain"
	"github.com/alexanderramin/routine/internal/repository"
	"github.com/alexanderramin/routine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, kv repository.KVStore, clock func() time.Time) *Session {
	t.Helper()
	s, err := Load(context.Background(), kv, WithClock(clock))
	require.NoError(t, err)
	return s
}

func record(t *testing.T, s *Session, step domain.Step) StepResult {
	t.Helper()
	res, err := s.RecordStep(context.Background(), step)
	require.NoError(t, err)
	return res
}

func storedValue(t *testing.T, kv repository.KVStore, key string) (string, bool) {
	t.Helper()
	v, ok, err := kv.Get(context.Background(), key)
	require.NoError(t, err)
	return v, ok
}

func TestRecordStep_FirstStepStartsRun(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	s := newSession(t, kv, testutil.FixedClock(testutil.At(7, 0)))

	res := record(t, s, 1)

	assert.True(t, res.Accepted)
	assert.Equal(t, domain.ClockTime{Hour: 7, Minute: 0}, res.Time)
	assert.Nil(t, res.Delta)
	assert.Equal(t, StateInProgress, res.State)
	assert.Equal(t, domain.Step(1), s.LastCompleted())

	raw, ok := storedValue(t, kv, KeyCurrentRoutine)
	require.True(t, ok, "snapshot should be flushed after the step")
	assert.Equal(t, `[null,"07 h 00",null,null,null,null,null,null,null,null,null]`, raw)
}

func TestRecordStep_CapturesMinuteOnly(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	s := newSession(t, kv, testutil.FixedClock(time.Date(2026, 3, 2, 6, 59, 48, 0, time.Local)))

	res := record(t, s, 1)
	assert.Equal(t, domain.ClockTime{Hour: 6, Minute: 59}, res.Time)
}

func TestRecordStep_OutOfOrderRejected(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	s := newSession(t, kv, testutil.FixedClock(testutil.At(7, 0)))

	res := record(t, s, 3)

	assert.False(t, res.Accepted)
	assert.Equal(t, RejectOutOfOrder, res.Rejection)
	assert.Equal(t, StateNotStarted, res.State)
	assert.Equal(t, 0, s.times.Count())
	_, ok := storedValue(t, kv, KeyCurrentRoutine)
	assert.False(t, ok, "a rejected step must not persist")
}

func TestRecordStep_DuplicateRejected(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	s := newSession(t, kv, testutil.SequenceClock(testutil.At(7, 0), testutil.At(7, 3)))

	first := record(t, s, 1)
	second := record(t, s, 1)

	require.True(t, first.Accepted)
	assert.False(t, second.Accepted)
	assert.Equal(t, RejectDuplicate, second.Rejection)
	c, _ := s.times.Get(1)
	assert.Equal(t, first.Time, c, "the first recorded time is kept")
}

func TestRecordStep_UnknownStepRejected(t *testing.T) {
	s := newSession(t, repository.NewMemoryKVStore(), testutil.FixedClock(testutil.At(7, 0)))

	for _, step := range []domain.Step{0, -1, 11} {
		res := record(t, s, step)
		assert.Equal(t, RejectUnknownStep, res.Rejection, "step %d", step)
	}
}

func TestRecordStep_ReportsDeltaToPrevious(t *testing.T) {
	s := newSession(t, repository.NewMemoryKVStore(),
		testutil.SequenceClock(testutil.At(23, 50), testutil.At(0, 10)))

	record(t, s, 1)
	res := record(t, s, 2)

	require.NotNil(t, res.Delta)
	assert.Equal(t, 20, res.Delta.Minutes)
}

func TestRecordStep_RejectionLeavesStoreUnchanged(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	s := newSession(t, kv, testutil.FixedClock(testutil.At(7, 0)))
	record(t, s, 1)
	record(t, s, 2)
	before, _ := storedValue(t, kv, KeyCurrentRoutine)

	for _, step := range []domain.Step{1, 2, 4, 10, 0} {
		res := record(t, s, step)
		assert.False(t, res.Accepted)
	}

	after, _ := storedValue(t, kv, KeyCurrentRoutine)
	assert.Equal(t, before, after)
	assert.Equal(t, domain.Step(2), s.LastCompleted())
}

func TestRecordStep_StoreFailureRollsBack(t *testing.T) {
	kv := testutil.NewFailingKVStore()
	s := newSession(t, kv, testutil.FixedClock(testutil.At(7, 0)))
	kv.FailWrites = true

	_, err := s.RecordStep(context.Background(), 1)

	require.ErrorIs(t, err, testutil.ErrStoreDown)
	assert.Equal(t, domain.Step(0), s.LastCompleted())
	assert.False(t, s.times.Has(1))
}

func TestRecordStep_FullRunArchivesAndResets(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	s := newSession(t, kv, testutil.SequenceClock(testutil.FullRunTimes...))

	var last StepResult
	for _, step := range domain.Steps() {
		last = record(t, s, step)
		require.True(t, last.Accepted, "step %d", step)
	}

	require.NotNil(t, last.Archived)
	assert.Equal(t, 70, last.Archived.TotalMinutes)
	assert.Len(t, last.Archived.Breakdown, 9)
	assert.True(t, last.Archived.Complete)
	assert.Equal(t, StateNotStarted, last.State)

	history, err := s.Archiver().History(context.Background())
	require.NoError(t, err)
	assert.Len(t, history, 1)

	assert.Equal(t, domain.Step(0), s.LastCompleted())
	assert.Equal(t, 0, s.times.Count())
	_, ok := storedValue(t, kv, KeyCurrentRoutine)
	assert.False(t, ok)
	_, ok = storedValue(t, kv, KeyRoutineSaved)
	assert.False(t, ok, "archive flag is cleared by the reset")
}

func TestRecordStep_LastStepSkipsArchiveWhenAlreadySaved(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	s := newSession(t, kv, testutil.SequenceClock(testutil.FullRunTimes...))
	for step := domain.Step(1); step < domain.LastStep; step++ {
		record(t, s, step)
	}
	require.NoError(t, kv.Set(context.Background(), KeyRoutineSaved, "true"))

	res := record(t, s, domain.LastStep)

	assert.True(t, res.Accepted)
	assert.Nil(t, res.Archived)
	assert.Equal(t, StateCompleted, s.State())
	assert.Equal(t, Expected{Finished: true}, s.CurrentExpectedStep())
	assert.Equal(t, RejectDuplicate, record(t, s, domain.LastStep).Rejection)
}

func TestCurrentExpectedStep(t *testing.T) {
	s := newSession(t, repository.NewMemoryKVStore(), testutil.FixedClock(testutil.At(7, 0)))

	assert.Equal(t, "Start wake-up", s.CurrentExpectedStep().Label())
	record(t, s, 1)
	assert.Equal(t, domain.Step(2), s.CurrentExpectedStep().Step)
	assert.Equal(t, "Out of bed", s.CurrentExpectedStep().Label())

	s.last = domain.LastStep
	assert.Equal(t, domain.FinishedLabel, s.CurrentExpectedStep().Label())
}

func TestLoad_RestoresLastCompleted(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	raw := `[null,"07 h 00","07 h 05","07 h 20","07 h 30",null,null,null,null,null,null]`
	require.NoError(t, kv.Set(context.Background(), KeyCurrentRoutine, raw))

	s := newSession(t, kv, testutil.FixedClock(testutil.At(7, 35)))

	assert.Equal(t, domain.Step(4), s.LastCompleted())
	assert.Equal(t, StateInProgress, s.State())
	res := record(t, s, 5)
	assert.True(t, res.Accepted)
	require.NotNil(t, res.Delta)
	assert.Equal(t, 5, res.Delta.Minutes)
}

func TestLoad_UnreadableSnapshotStartsEmpty(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	require.NoError(t, kv.Set(context.Background(), KeyCurrentRoutine, "{not json"))

	s := newSession(t, kv, testutil.FixedClock(testutil.At(7, 0)))

	assert.Equal(t, StateNotStarted, s.State())
	assert.True(t, record(t, s, 1).Accepted)
}

func TestLoad_MalformedSlotTruncatesRun(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	raw := `[null,"07 h 00","bad","07 h 20",null,null,null,null,null,null,null]`
	require.NoError(t, kv.Set(context.Background(), KeyCurrentRoutine, raw))

	s := newSession(t, kv, testutil.FixedClock(testutil.At(7, 30)))

	assert.Equal(t, domain.Step(1), s.LastCompleted())
	assert.False(t, s.times.Has(3), "steps after the gap are dropped")
}

func TestLoad_CompletedUnarchivedRunIsArchived(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	raw := `[null,"07 h 00","07 h 05","07 h 20","07 h 30","07 h 35","07 h 40","07 h 55","08 h 00","08 h 05","08 h 10"]`
	require.NoError(t, kv.Set(context.Background(), KeyCurrentRoutine, raw))

	s := newSession(t, kv, testutil.FixedClock(testutil.At(8, 11)))

	assert.Equal(t, StateNotStarted, s.State())
	history, err := s.Archiver().History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 70, history[0].TotalMinutes)
}

func TestLoad_CompletedAlreadyArchivedRunIsOnlyReset(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	ctx := context.Background()
	raw := `[null,"07 h 00","07 h 05","07 h 20","07 h 30","07 h 35","07 h 40","07 h 55","08 h 00","08 h 05","08 h 10"]`
	require.NoError(t, kv.Set(ctx, KeyCurrentRoutine, raw))
	require.NoError(t, kv.Set(ctx, KeyRoutineSaved, "true"))

	s := newSession(t, kv, testutil.FixedClock(testutil.At(8, 11)))

	assert.Equal(t, StateNotStarted, s.State())
	history, err := s.Archiver().History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history, "the run must not be archived twice")
	_, ok := storedValue(t, kv, KeyRoutineSaved)
	assert.False(t, ok)
}

func TestLoad_StoreReadFailure(t *testing.T) {
	kv := testutil.NewFailingKVStore()
	kv.FailReads = true

	_, err := Load(context.Background(), kv)
	assert.ErrorIs(t, err, testutil.ErrStoreDown)
}

func TestEditStep(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	s := newSession(t, kv, testutil.SequenceClock(testutil.At(7, 0), testutil.At(7, 5), testutil.At(7, 20)))
	ctx := context.Background()
	record(t, s, 1)
	record(t, s, 2)
	record(t, s, 3)

	require.NoError(t, s.EditStep(ctx, 3, testutil.Clock(7, 1)))

	assert.Equal(t, domain.Step(3), s.LastCompleted(), "edits never move the cursor")
	d, ok := s.StepDelta(3)
	require.True(t, ok)
	assert.Equal(t, 1436, d.Minutes, "an earlier edited time wraps instead of going negative")

	raw, _ := storedValue(t, kv, KeyCurrentRoutine)
	assert.Contains(t, raw, `"07 h 01"`)
}

func TestEditStep_Errors(t *testing.T) {
	s := newSession(t, repository.NewMemoryKVStore(), testutil.FixedClock(testutil.At(7, 0)))
	ctx := context.Background()
	record(t, s, 1)

	assert.ErrorIs(t, s.EditStep(ctx, 2, testutil.Clock(7, 5)), ErrStepNotRecorded)
	assert.ErrorIs(t, s.EditStep(ctx, 12, testutil.Clock(7, 5)), domain.ErrUnknownStep)
	assert.False(t, s.times.Has(2))
}

func TestReset_ClearsStateAndKeys(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	ctx := context.Background()
	s := newSession(t, kv, testutil.FixedClock(testutil.At(7, 0)))
	record(t, s, 1)
	require.NoError(t, s.SetDailyInputs(ctx, domain.DailyInputs{SleepScore: "82"}))
	require.NoError(t, kv.Set(ctx, KeyRoutineSaved, "true"))
	require.NoError(t, kv.Set(ctx, KeyHistory, "[]"))

	require.NoError(t, s.Reset(ctx))

	assert.Equal(t, StateNotStarted, s.State())
	assert.True(t, s.DailyInputs().IsZero())
	for _, key := range []string{KeyCurrentRoutine, KeyRoutineSaved, KeyDailyInputs} {
		_, ok := storedValue(t, kv, key)
		assert.False(t, ok, key)
	}
	_, ok := storedValue(t, kv, KeyHistory)
	assert.True(t, ok, "reset leaves history alone")
}

func TestDailyInputs_PersistAcrossLoad(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	ctx := context.Background()
	s := newSession(t, kv, testutil.FixedClock(testutil.At(7, 0)))
	in := domain.DailyInputs{SleepTime: "7h20", SleepScore: "85", Note: `slept "well"`}
	require.NoError(t, s.SetDailyInputs(ctx, in))

	reloaded := newSession(t, kv, testutil.FixedClock(testutil.At(7, 0)))
	assert.Equal(t, in, reloaded.DailyInputs())
}

func TestSteps_View(t *testing.T) {
	s := newSession(t, repository.NewMemoryKVStore(),
		testutil.SequenceClock(testutil.At(7, 0), testutil.At(7, 5)))
	record(t, s, 1)
	record(t, s, 2)

	views := s.Steps()
	require.Len(t, views, domain.StepCount)
	assert.True(t, views[0].Recorded)
	assert.Nil(t, views[0].Delta)
	require.NotNil(t, views[1].Delta)
	assert.Equal(t, 5, views[1].Delta.Minutes)
	assert.True(t, views[2].Next)
	assert.False(t, views[2].Recorded)
}
