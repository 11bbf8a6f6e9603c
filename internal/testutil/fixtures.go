package testutil

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/routine/internal/domain"
	"github.com/alexanderramin/routine/internal/repository"
)

// ErrStoreDown is returned by FailingKVStore.
var ErrStoreDown = errors.New("store unavailable")

// Morning is 2026-03-02 07:00 local, the base of the fixture clocks.
var Morning = time.Date(2026, 3, 2, 7, 0, 0, 0, time.Local)

// FixedClock always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SequenceClock reports each time in turn, repeating the last one once
// exhausted.
func SequenceClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

// At returns Morning's date at hour:minute.
func At(hour, minute int) time.Time {
	y, m, d := Morning.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, time.Local)
}

// Clock builds a ClockTime, panicking on invalid input.
func Clock(hour, minute int) domain.ClockTime {
	c, err := domain.NewClockTime(hour, minute)
	if err != nil {
		panic(err)
	}
	return c
}

// FullRunTimes are the recorded times of a complete 70 minute routine.
var FullRunTimes = []time.Time{
	At(7, 0), At(7, 5), At(7, 20), At(7, 30), At(7, 35),
	At(7, 40), At(7, 55), At(8, 0), At(8, 5), At(8, 10),
}

// FailingKVStore wraps a store and fails writes once FailWrites is set.
type FailingKVStore struct {
	repository.KVStore
	FailWrites bool
	FailReads  bool
}

func NewFailingKVStore() *FailingKVStore {
	return &FailingKVStore{KVStore: repository.NewMemoryKVStore()}
}

func (f *FailingKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.FailReads {
		return "", false, ErrStoreDown
	}
	return f.KVStore.Get(ctx, key)
}

func (f *FailingKVStore) Set(ctx context.Context, key, value string) error {
	if f.FailWrites {
		return ErrStoreDown
	}
	return f.KVStore.Set(ctx, key, value)
}

func (f *FailingKVStore) Remove(ctx context.Context, key string) error {
	if f.FailWrites {
		return ErrStoreDown
	}
	return f.KVStore.Remove(ctx, key)
}

func (f *FailingKVStore) Batch(ctx context.Context, fn func(ctx context.Context, tx repository.KVStore) error) error {
	if f.FailWrites {
		return ErrStoreDown
	}
	return f.KVStore.Batch(ctx, fn)
}
