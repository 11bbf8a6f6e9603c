package routine

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/routine/internal/domain"
)

// Serialize encodes recorded times in the currentRoutine wire format: an
// 11-slot JSON array of "HH h MM" strings or nulls.
func Serialize(times domain.StepTimes) (string, error) {
	data, err := json.Marshal(times)
	if err != nil {
		return "", fmt.Errorf("encoding routine snapshot: %w", err)
	}
	return string(data), nil
}

// Restore rebuilds the last completed step from a snapshot by scanning down
// from the highest slot for the first recorded time. Slots below it that
// are absent would leave a gap, so the snapshot is cut back to its longest
// gap-free prefix; dropped lists the recorded steps that were discarded.
func Restore(times domain.StepTimes) (repaired domain.StepTimes, last domain.Step, dropped []domain.Step) {
	for s := domain.LastStep; s >= domain.FirstStep; s-- {
		if times.Has(s) {
			last = s
			break
		}
	}

	repaired = times.Clone()
	for s := domain.FirstStep; s <= last; s++ {
		if repaired.Has(s) {
			continue
		}
		for after := s + 1; after <= last; after++ {
			if repaired.Has(after) {
				dropped = append(dropped, after)
				repaired[after] = nil
			}
		}
		last = s - 1
		break
	}
	return repaired, last, dropped
}

// Deserialize parses a persisted snapshot and restores it. Malformed slots
// are treated as absent and reported in malformed.
func Deserialize(raw string) (times domain.StepTimes, last domain.Step, malformed, dropped []domain.Step, err error) {
	decoded, malformed, err := domain.DecodeStepTimes([]byte(raw))
	if err != nil {
		return domain.StepTimes{}, 0, nil, nil, err
	}
	times, last, dropped = Restore(decoded)
	return times, last, malformed, dropped, nil
}
