package domain

import "time"

// DateLayout is the calendar date format used in history entries.
const DateLayout = "2006-01-02"

// DailyInputs is the free-form metadata captured alongside a routine.
type DailyInputs struct {
	SleepTime  string `json:"sleepTime"`
	SleepScore string `json:"sleepScore"`
	Note       string `json:"note"`
}

// IsZero reports whether no field was filled in.
func (d DailyInputs) IsZero() bool {
	return d.SleepTime == "" && d.SleepScore == "" && d.Note == ""
}

// HistoryEntry is an archived run. Entries are never modified after creation.
type HistoryEntry struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	ArchivedAt   time.Time `json:"archivedAt"`
	Start        string    `json:"start"`
	End          string    `json:"end"`
	StepTimes    StepTimes `json:"stepTimes"`
	TotalMinutes int       `json:"totalMinutes"`
	TotalSeconds int       `json:"totalSeconds"`
	Duration     string    `json:"duration"`
	HoursMinutes string    `json:"hoursMinutes"`
	Breakdown    []string  `json:"breakdown"`
	Segments     []Segment `json:"segments"`
	Complete     bool      `json:"complete"`
	SleepTime    string    `json:"sleepTime,omitempty"`
	SleepScore   string    `json:"sleepScore,omitempty"`
	Note         string    `json:"note,omitempty"`
}

// Total returns the archived total as an Elapsed.
func (h HistoryEntry) Total() Elapsed {
	return Elapsed{Minutes: h.TotalMinutes, Seconds: h.TotalSeconds}
}
