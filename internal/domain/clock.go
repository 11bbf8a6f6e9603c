package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTime = errors.New("invalid time of day")

const day = 24 * time.Hour

// ClockTime is a local wall-clock time of day at minute granularity.
type ClockTime struct {
	Hour   int
	Minute int
}

// ClockOf truncates t to the minute and drops the date.
func ClockOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}

// NewClockTime validates hour and minute ranges.
func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%02d:%02d: %w", hour, minute, ErrInvalidTime)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// String renders the persisted and displayed form, e.g. "07 h 05".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d h %02d", c.Hour, c.Minute)
}

// sinceMidnight returns the offset of c into a same-day instant.
func (c ClockTime) sinceMidnight() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

// ParseClockTime accepts "H h MM" (any spacing around the h) and the
// legacy "H:MM" form.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	var sep string
	switch {
	case strings.Contains(s, "h"):
		sep = "h"
	case strings.Contains(s, ":"):
		sep = ":"
	default:
		return ClockTime{}, fmt.Errorf("%q: %w", s, ErrInvalidTime)
	}

	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("%q: %w", s, ErrInvalidTime)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return ClockTime{}, fmt.Errorf("%q: %w", s, ErrInvalidTime)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return ClockTime{}, fmt.Errorf("%q: %w", s, ErrInvalidTime)
	}
	return NewClockTime(h, m)
}

// Elapsed is a non-negative span between two recorded times.
type Elapsed struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Total returns the span as a time.Duration.
func (e Elapsed) Total() time.Duration {
	return time.Duration(e.Minutes)*time.Minute + time.Duration(e.Seconds)*time.Second
}

// Short renders "<M>m<S>s".
func (e Elapsed) Short() string {
	return fmt.Sprintf("%dm%ds", e.Minutes, e.Seconds)
}

// Long renders "<M> min <S> sec".
func (e Elapsed) Long() string {
	return fmt.Sprintf("%d min %d sec", e.Minutes, e.Seconds)
}

// HoursMinutes renders "<H>h <MM>m" from the whole minutes.
func (e Elapsed) HoursMinutes() string {
	return fmt.Sprintf("%dh %02dm", e.Minutes/60, e.Minutes%60)
}

// Delta returns the time from a to b, assuming b is at most one day after a.
// A negative same-day difference is treated as crossing midnight.
func Delta(a, b ClockTime) Elapsed {
	diff := b.sinceMidnight() - a.sinceMidnight()
	if diff < 0 {
		diff += day
	}
	return Elapsed{
		Minutes: int(diff / time.Minute),
		Seconds: int((diff % time.Minute) / time.Second),
	}
}
