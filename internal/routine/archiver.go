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
	"github.com/google/uuid"
)

var ErrNotEnoughSteps = errors.New("not enough steps recorded")

// Archiver turns sessions into history entries and owns the history log.
type Archiver struct {
	store  repository.KVStore
	now    func() time.Time
	logger *slog.Logger
	newID  func() string
}

// ArchiverOption configures an Archiver.
type ArchiverOption func(*Archiver)

func WithArchiveClock(now func() time.Time) ArchiverOption {
	return func(a *Archiver) { a.now = now }
}

func WithArchiveLogger(l *slog.Logger) ArchiverOption {
	return func(a *Archiver) { a.logger = l }
}

// WithIDGenerator replaces the uuid generator for entry IDs.
func WithIDGenerator(fn func() string) ArchiverOption {
	return func(a *Archiver) { a.newID = fn }
}

func NewArchiver(store repository.KVStore, opts ...ArchiverOption) *Archiver {
	a := &Archiver{
		store:  store,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewHistoryEntry builds an entry from recorded times. It is false when
// fewer than two times are recorded, since no duration exists.
func NewHistoryEntry(id string, times domain.StepTimes, daily domain.DailyInputs, at time.Time) (domain.HistoryEntry, bool) {
	total, ok := times.Total()
	if !ok {
		return domain.HistoryEntry{}, false
	}
	first, last, _ := times.Bounds()
	segments := times.Segments()
	breakdown := make([]string, 0, len(segments))
	for _, g := range segments {
		breakdown = append(breakdown, g.Line())
	}

	return domain.HistoryEntry{
		ID:           id,
		Date:         at.Format(domain.DateLayout),
		ArchivedAt:   at,
		Start:        times[first].String(),
		End:          times[last].String(),
		StepTimes:    times.Clone(),
		TotalMinutes: total.Minutes,
		TotalSeconds: total.Seconds,
		Duration:     total.Long(),
		HoursMinutes: total.HoursMinutes(),
		Breakdown:    breakdown,
		Segments:     segments,
		Complete:     times.Has(domain.LastStep),
		SleepTime:    daily.SleepTime,
		SleepScore:   daily.SleepScore,
		Note:         daily.Note,
	}, true
}

// Archive appends the session to the front of the history log and resets
// the session in the same batch. With fewer than two recorded steps it does
// nothing and returns a nil entry. A nil daily uses the session's own
// daily inputs.
func (a *Archiver) Archive(ctx context.Context, s *Session, daily *domain.DailyInputs) (*domain.HistoryEntry, error) {
	if _, ok := s.times.Total(); !ok {
		a.logger.Debug("archive skipped", "reason", ErrNotEnoughSteps.Error(), "recorded", s.times.Count())
		return nil, nil
	}
	meta := s.daily
	if daily != nil {
		meta = *daily
	}
	entry, _ := NewHistoryEntry(a.newID(), s.times, meta, a.now())

	// History and reset land together, so the routineSaved flag is never
	// left behind; it is only read back from older stored state.
	err := a.store.Batch(ctx, func(ctx context.Context, tx repository.KVStore) error {
		history, err := a.readHistory(ctx, tx)
		if err != nil {
			return err
		}
		history = append([]domain.HistoryEntry{entry}, history...)
		if err := writeHistory(ctx, tx, history); err != nil {
			return err
		}
		return resetKeys(ctx, tx)
	})
	if err != nil {
		return nil, fmt.Errorf("archiving routine: %w", err)
	}

	s.clear()
	a.logger.Info("routine archived", "id", entry.ID, "date", entry.Date, "total_min", entry.TotalMinutes)
	return &entry, nil
}

// ForceSave archives an unfinished run. Unlike Archive it reports an
// insufficient run as ErrNotEnoughSteps.
func (a *Archiver) ForceSave(ctx context.Context, s *Session, daily *domain.DailyInputs) (*domain.HistoryEntry, error) {
	entry, err := a.Archive(ctx, s, daily)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotEnoughSteps
	}
	return entry, nil
}

// History returns archived entries, newest first.
func (a *Archiver) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	return a.readHistory(ctx, a.store)
}

// ClearAll erases the history log. Confirmation is the caller's job.
func (a *Archiver) ClearAll(ctx context.Context) error {
	if err := a.store.Remove(ctx, KeyHistory); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	a.logger.Info("history cleared")
	return nil
}

// readHistory decodes the history log. An unreadable log is moved aside
// under a timestamped key and read as empty so new entries can still land.
func (a *Archiver) readHistory(ctx context.Context, kv repository.KVStore) ([]domain.HistoryEntry, error) {
	raw, ok, err := kv.Get(ctx, KeyHistory)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var history []domain.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", KeyHistory, a.now().Unix())
		a.logger.Warn("history unreadable, moving aside", "key", aside, "error", err)
		if err := kv.Set(ctx, aside, raw); err != nil {
			return nil, fmt.Errorf("preserving unreadable history: %w", err)
		}
		if err := kv.Remove(ctx, KeyHistory); err != nil {
			return nil, fmt.Errorf("removing unreadable history: %w", err)
		}
		return nil, nil
	}
	return history, nil
}

func writeHistory(ctx context.Context, kv repository.KVStore, history []domain.HistoryEntry) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := kv.Set(ctx, KeyHistory, string(data)); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}
