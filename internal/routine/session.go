package routine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/routine/internal/domain"
	"github.com/alexanderramin/routine/internal/repository"
)

var ErrStepNotRecorded = errors.New("step has no recorded time")

// Session is the in-progress routine. All mutation goes through its methods
// and every successful mutation is flushed to the store before returning.
type Session struct {
	store    repository.KVStore
	now      func() time.Time
	logger   *slog.Logger
	archiver *Archiver

	times domain.StepTimes
	last  domain.Step
	daily domain.DailyInputs
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the wall clock used to stamp steps and history dates.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithArchiver replaces the archiver that runs when the last step lands.
func WithArchiver(a *Archiver) Option {
	return func(s *Session) { s.archiver = a }
}

// StepResult describes the outcome of RecordStep.
type StepResult struct {
	Step      domain.Step
	Accepted  bool
	Rejection Rejection
	Time      domain.ClockTime
	// Delta is set when the previous step also has a recorded time.
	Delta *domain.Elapsed
	State State
	// Archived is the entry created when this step completed the run.
	Archived *domain.HistoryEntry
}

// Expected is the step the user should record next.
type Expected struct {
	Step     domain.Step
	Finished bool
}

// Label is the step name, or FinishedLabel once the run is complete.
func (e Expected) Label() string {
	if e.Finished {
		return domain.FinishedLabel
	}
	return e.Step.Name()
}

// StepView is one row of the session for display.
type StepView struct {
	Step     domain.Step
	Time     domain.ClockTime
	Recorded bool
	Delta    *domain.Elapsed
	Next     bool
}

// Load rehydrates a session from the store. Unreadable state is logged and
// treated as absent. A run that completed without being archived, for
// example because the process died in between, is archived here.
func Load(ctx context.Context, store repository.KVStore, opts ...Option) (*Session, error) {
	s := &Session{
		store:  store,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.archiver == nil {
		s.archiver = NewArchiver(store, WithArchiveClock(s.now), WithArchiveLogger(s.logger))
	}

	if err := s.loadTimes(ctx); err != nil {
		return nil, err
	}
	if err := s.loadDaily(ctx); err != nil {
		return nil, err
	}

	if s.State() == StateCompleted {
		if err := s.finishCompleted(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) loadTimes(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, KeyCurrentRoutine)
	if err != nil {
		return fmt.Errorf("loading current routine: %w", err)
	}
	if !ok {
		return nil
	}

	times, last, malformed, dropped, err := Deserialize(raw)
	if err != nil {
		s.logger.Warn("discarding unreadable routine snapshot", "error", err)
		return nil
	}
	if len(malformed) > 0 {
		s.logger.Warn("ignoring malformed step times", "steps", malformed)
	}
	if len(dropped) > 0 {
		s.logger.Warn("dropping steps recorded after a gap", "steps", dropped, "last_completed", int(last))
	}
	s.times, s.last = times, last
	return nil
}

func (s *Session) loadDaily(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, KeyDailyInputs)
	if err != nil {
		return fmt.Errorf("loading daily inputs: %w", err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &s.daily); err != nil {
		s.logger.Warn("discarding unreadable daily inputs", "error", err)
		s.daily = domain.DailyInputs{}
	}
	return nil
}

// finishCompleted settles a restored run whose last step is recorded. A
// routineSaved flag only exists in state written by older versions.
func (s *Session) finishCompleted(ctx context.Context) error {
	_, saved, err := s.store.Get(ctx, KeyRoutineSaved)
	if err != nil {
		return fmt.Errorf("reading archive flag: %w", err)
	}
	if saved {
		s.logger.Info("completed routine already archived, resetting")
		return s.Reset(ctx)
	}
	s.logger.Info("archiving completed routine found on load")
	if _, err := s.archiver.Archive(ctx, s, nil); err != nil {
		return err
	}
	return nil
}

// RecordStep stamps step with the current minute when it is the next step
// in order and not yet recorded. Any other call is rejected without
// touching state; rejections are reported in the result, not as errors.
// Recording the last step archives the run and resets the session.
func (s *Session) RecordStep(ctx context.Context, step domain.Step) (StepResult, error) {
	t, rejection := nextTransition(&s.times, s.last, step)
	if rejection != RejectNone {
		s.logger.Debug("step rejected", "step", int(step), "reason", string(rejection), "last_completed", int(s.last))
		return StepResult{Step: step, Rejection: rejection, State: s.State()}, nil
	}

	now := domain.ClockOf(s.now())
	prevTimes, prevLast := s.times.Clone(), s.last
	s.times.Set(step, now)
	s.last = step
	if err := s.persist(ctx); err != nil {
		s.times, s.last = prevTimes, prevLast
		return StepResult{}, err
	}

	res := StepResult{Step: step, Accepted: true, Time: now, State: t.to}
	if d, ok := s.times.StepDelta(step); ok {
		res.Delta = &d
	}
	s.logger.Debug("step recorded", "step", int(step), "time", now.String())

	if !t.archive {
		return res, nil
	}

	_, saved, err := s.store.Get(ctx, KeyRoutineSaved)
	if err != nil {
		return res, fmt.Errorf("reading archive flag: %w", err)
	}
	if saved {
		return res, nil
	}
	entry, err := s.archiver.Archive(ctx, s, nil)
	if err != nil {
		return res, err
	}
	res.Archived = entry
	res.State = s.State()
	return res, nil
}

// EditStep overwrites the time of an already recorded step without any
// ordering check. The last completed step is unchanged.
func (s *Session) EditStep(ctx context.Context, step domain.Step, at domain.ClockTime) error {
	if !step.Valid() {
		return fmt.Errorf("editing step %d: %w", int(step), domain.ErrUnknownStep)
	}
	if !s.times.Has(step) {
		return fmt.Errorf("editing step %d: %w", int(step), ErrStepNotRecorded)
	}

	prev := s.times.Clone()
	s.times.Set(step, at)
	if err := s.persist(ctx); err != nil {
		s.times = prev
		return err
	}
	return nil
}

// SetDailyInputs replaces and persists the daily metadata.
func (s *Session) SetDailyInputs(ctx context.Context, d domain.DailyInputs) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding daily inputs: %w", err)
	}
	if err := s.store.Set(ctx, KeyDailyInputs, string(data)); err != nil {
		return fmt.Errorf("saving daily inputs: %w", err)
	}
	s.daily = d
	return nil
}

// Reset clears the session and its persisted keys.
func (s *Session) Reset(ctx context.Context) error {
	err := s.store.Batch(ctx, func(ctx context.Context, tx repository.KVStore) error {
		return resetKeys(ctx, tx)
	})
	if err != nil {
		return err
	}
	s.clear()
	return nil
}

func resetKeys(ctx context.Context, tx repository.KVStore) error {
	for _, key := range []string{KeyCurrentRoutine, KeyRoutineSaved, KeyDailyInputs} {
		if err := tx.Remove(ctx, key); err != nil {
			return fmt.Errorf("resetting routine: %w", err)
		}
	}
	return nil
}

func (s *Session) clear() {
	s.times = domain.StepTimes{}
	s.last = 0
	s.daily = domain.DailyInputs{}
}

func (s *Session) persist(ctx context.Context) error {
	raw, err := Serialize(s.times)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, KeyCurrentRoutine, raw); err != nil {
		return fmt.Errorf("saving current routine: %w", err)
	}
	return nil
}

// State reports where the session is in its run.
func (s *Session) State() State {
	return stateOf(s.last)
}

// LastCompleted is the highest recorded step, 0 before the first.
func (s *Session) LastCompleted() domain.Step {
	return s.last
}

// CurrentExpectedStep returns the next step to record.
func (s *Session) CurrentExpectedStep() Expected {
	if s.last >= domain.LastStep {
		return Expected{Finished: true}
	}
	return Expected{Step: s.last + 1}
}

// Times returns a copy of the recorded times.
func (s *Session) Times() domain.StepTimes {
	return s.times.Clone()
}

// DailyInputs returns the metadata that will be attached on archive.
func (s *Session) DailyInputs() domain.DailyInputs {
	return s.daily
}

// StepDelta is the time from the previous step to step, if both are recorded.
func (s *Session) StepDelta(step domain.Step) (domain.Elapsed, bool) {
	return s.times.StepDelta(step)
}

// TotalElapsed spans the first to the last recorded step.
func (s *Session) TotalElapsed() (domain.Elapsed, bool) {
	return s.times.Total()
}

// Breakdown returns the elapsed time between each consecutive recorded pair.
func (s *Session) Breakdown() []domain.Segment {
	return s.times.Segments()
}

// Archiver returns the archiver used on completion.
func (s *Session) Archiver() *Archiver {
	return s.archiver
}

// Steps returns a display row for every catalog step.
func (s *Session) Steps() []StepView {
	next := s.CurrentExpectedStep()
	views := make([]StepView, 0, domain.StepCount)
	for _, step := range domain.Steps() {
		v := StepView{Step: step, Next: !next.Finished && next.Step == step}
		if c, ok := s.times.Get(step); ok {
			v.Time, v.Recorded = c, true
		}
		if d, ok := s.times.StepDelta(step); ok {
			v.Delta = &d
		}
		views = append(views, v)
	}
	return views
}
