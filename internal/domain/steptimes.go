package domain

import (
	"encoding/json"
	"fmt"
)

// StepTimes holds the recorded time for each step. Index 0 is unused so
// that StepTimes[s] addresses step s directly.
type StepTimes [StepCount + 1]*ClockTime

// Get returns the recorded time for s.
func (t *StepTimes) Get(s Step) (ClockTime, bool) {
	if !s.Valid() || t[s] == nil {
		return ClockTime{}, false
	}
	return *t[s], true
}

// Has reports whether s has a recorded time.
func (t *StepTimes) Has(s Step) bool {
	return s.Valid() && t[s] != nil
}

// Set stores c at s. Out-of-range steps are ignored.
func (t *StepTimes) Set(s Step, c ClockTime) {
	if !s.Valid() {
		return
	}
	v := c
	t[s] = &v
}

// Clone returns a deep copy.
func (t StepTimes) Clone() StepTimes {
	var out StepTimes
	for i, c := range t {
		if c != nil {
			v := *c
			out[i] = &v
		}
	}
	return out
}

// Count returns the number of recorded steps.
func (t *StepTimes) Count() int {
	n := 0
	for _, s := range Steps() {
		if t[s] != nil {
			n++
		}
	}
	return n
}

// Bounds returns the first and last recorded steps in routine order.
func (t *StepTimes) Bounds() (first, last Step, ok bool) {
	for _, s := range Steps() {
		if t[s] == nil {
			continue
		}
		if first == 0 {
			first = s
		}
		last = s
	}
	return first, last, first != 0
}

// Total is the elapsed time between the first and last recorded steps.
// It is false when fewer than two steps are recorded.
func (t *StepTimes) Total() (Elapsed, bool) {
	first, last, ok := t.Bounds()
	if !ok || first == last {
		return Elapsed{}, false
	}
	return Delta(*t[first], *t[last]), true
}

// StepDelta is the elapsed time from s-1 to s when both are recorded.
func (t *StepTimes) StepDelta(s Step) (Elapsed, bool) {
	if s <= FirstStep || !s.Valid() || t[s] == nil || t[s-1] == nil {
		return Elapsed{}, false
	}
	return Delta(*t[s-1], *t[s]), true
}

// Segment is the elapsed time between two consecutive recorded steps.
type Segment struct {
	From    Step    `json:"from"`
	To      Step    `json:"to"`
	Elapsed Elapsed `json:"elapsed"`
}

// Line renders "<from> → <to> : <M>m<S>s".
func (g Segment) Line() string {
	return fmt.Sprintf("%s → %s : %s", g.From.Name(), g.To.Name(), g.Elapsed.Short())
}

// Segments returns every consecutive recorded pair in order.
func (t *StepTimes) Segments() []Segment {
	var out []Segment
	for _, s := range Steps() {
		if d, ok := t.StepDelta(s); ok {
			out = append(out, Segment{From: s - 1, To: s, Elapsed: d})
		}
	}
	return out
}

// MarshalJSON encodes the 11-slot array, absent slots as null.
func (t StepTimes) MarshalJSON() ([]byte, error) {
	slots := make([]*string, len(t))
	for i, c := range t {
		if c != nil {
			s := c.String()
			slots[i] = &s
		}
	}
	return json.Marshal(slots)
}

// UnmarshalJSON decodes leniently; unparseable slots become absent.
func (t *StepTimes) UnmarshalJSON(data []byte) error {
	decoded, _, err := DecodeStepTimes(data)
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}

// DecodeStepTimes parses a persisted slot array. Slots that are not strings
// or do not parse as a time are skipped and reported in malformed. Extra
// slots beyond the catalog are ignored. Only a payload that is not a JSON
// array at all is an error.
func DecodeStepTimes(data []byte) (times StepTimes, malformed []Step, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return StepTimes{}, nil, fmt.Errorf("decoding step times: %w", err)
	}
	for i, slot := range raw {
		s := Step(i)
		if !s.Valid() {
			continue
		}
		var text *string
		if err := json.Unmarshal(slot, &text); err != nil {
			malformed = append(malformed, s)
			continue
		}
		if text == nil || *text == "" {
			continue
		}
		c, err := ParseClockTime(*text)
		if err != nil {
			malformed = append(malformed, s)
			continue
		}
		times.Set(s, c)
	}
	return times, malformed, nil
}
