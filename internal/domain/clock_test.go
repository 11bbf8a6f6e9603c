package domain

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ClockTime
	}{
		{"padded h format", "07 h 05", ClockTime{7, 5}},
		{"unpadded h format", "7 h 5", ClockTime{7, 5}},
		{"tight h format", "14h36", ClockTime{14, 36}},
		{"colon format", "9:05", ClockTime{9, 5}},
		{"colon padded", "23:59", ClockTime{23, 59}},
		{"midnight", "00 h 00", ClockTime{0, 0}},
		{"surrounding space", "  8 h 10 ", ClockTime{8, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClockTime(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClockTime_Invalid(t *testing.T) {
	for _, input := range []string{"", "0705", "24 h 00", "12 h 60", "ab h cd", "1:2:3", "-1:30", "h"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseClockTime(input)
			assert.ErrorIs(t, err, ErrInvalidTime)
		})
	}
}

func TestClockTime_StringRoundTrip(t *testing.T) {
	c := ClockTime{Hour: 6, Minute: 3}
	assert.Equal(t, "06 h 03", c.String())

	back, err := ParseClockTime(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestClockOf_TruncatesToMinute(t *testing.T) {
	at := time.Date(2026, 3, 2, 7, 41, 59, 999, time.Local)
	assert.Equal(t, ClockTime{7, 41}, ClockOf(at))
}

func TestDelta(t *testing.T) {
	tests := []struct {
		name string
		a, b ClockTime
		want int
	}{
		{"same minute", ClockTime{9, 0}, ClockTime{9, 0}, 0},
		{"forward", ClockTime{7, 0}, ClockTime{8, 10}, 70},
		{"midnight rollover", ClockTime{23, 50}, ClockTime{0, 10}, 20},
		{"edit made later step earlier", ClockTime{7, 30}, ClockTime{7, 20}, 1430},
		{"just before full day", ClockTime{0, 1}, ClockTime{0, 0}, 1439},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Delta(tt.a, tt.b)
			assert.Equal(t, tt.want, got.Minutes)
			assert.Equal(t, 0, got.Seconds)
		})
	}
}

func TestElapsed_Formats(t *testing.T) {
	e := Elapsed{Minutes: 70}
	assert.Equal(t, "70m0s", e.Short())
	assert.Equal(t, "70 min 0 sec", e.Long())
	assert.Equal(t, "1h 10m", e.HoursMinutes())
	assert.Equal(t, 70*time.Minute, e.Total())
}

func genClock() gopter.Gen {
	return gopter.CombineGens(gen.IntRange(0, 23), gen.IntRange(0, 59)).Map(func(v []interface{}) ClockTime {
		return ClockTime{Hour: v[0].(int), Minute: v[1].(int)}
	})
}

func TestDelta_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("delta is within one day", prop.ForAll(
		func(a, b ClockTime) bool {
			d := Delta(a, b)
			return d.Minutes >= 0 && d.Minutes < 24*60 && d.Seconds == 0
		},
		genClock(), genClock(),
	))

	properties.Property("a to b plus b to a is a full day unless equal", prop.ForAll(
		func(a, b ClockTime) bool {
			sum := Delta(a, b).Minutes + Delta(b, a).Minutes
			if a == b {
				return sum == 0
			}
			return sum == 24*60
		},
		genClock(), genClock(),
	))

	properties.Property("format then parse is identity", prop.ForAll(
		func(c ClockTime) bool {
			back, err := ParseClockTime(c.String())
			return err == nil && back == c
		},
		genClock(),
	))

	properties.TestingRun(t)
}
