package domain

import (
	"errors"
	"fmt"
)

// StepCount is the fixed length of the routine.
const StepCount = 10

// FinishedLabel is shown in place of a step name once every step is recorded.
const FinishedLabel = "Routine finished"

var ErrUnknownStep = errors.New("unknown step")

// Step is a 1-based index into the routine catalog.
type Step int

var stepNames = [StepCount + 1]string{
	"",
	"Start wake-up",
	"Out of bed",
	"In Bathroom",
	"Finished ready",
	"In kitchen",
	"Sitting down for breakfast",
	"Finish eating",
	"In Bathroom teeth",
	"Finish brushing teeth",
	"Out of bathroom - Kitchen",
}

// FirstStep and LastStep bound the catalog.
const (
	FirstStep Step = 1
	LastStep  Step = StepCount
)

// Valid reports whether s names a catalog entry.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Name returns the catalog name, or "" for an out-of-range step.
func (s Step) Name() string {
	if !s.Valid() {
		return ""
	}
	return stepNames[s]
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return fmt.Sprintf("%d. %s", int(s), stepNames[s])
}

// ParseStep validates a step number coming from user input.
func ParseStep(n int) (Step, error) {
	s := Step(n)
	if !s.Valid() {
		return 0, fmt.Errorf("step %d: %w", n, ErrUnknownStep)
	}
	return s, nil
}

// Steps returns the catalog in routine order.
func Steps() []Step {
	out := make([]Step, 0, StepCount)
	for i := FirstStep; i <= LastStep; i++ {
		out = append(out, i)
	}
	return out
}
