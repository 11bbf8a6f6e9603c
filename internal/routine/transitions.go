package routine

import "github.com/alexanderramin/routine/internal/domain"

// State is the coarse position of a session in its run.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// stateOf derives the state from the last completed step.
func stateOf(last domain.Step) State {
	switch {
	case last <= 0:
		return StateNotStarted
	case last >= domain.LastStep:
		return StateCompleted
	default:
		return StateInProgress
	}
}

// Rejection explains why a step was not recorded.
type Rejection string

const (
	RejectNone        Rejection = ""
	RejectUnknownStep Rejection = "unknown_step"
	RejectDuplicate   Rejection = "duplicate"
	RejectOutOfOrder  Rejection = "out_of_order"
	RejectFinished    Rejection = "finished"
)

// Message is a short user-facing notice for the rejection.
func (r Rejection) Message() string {
	switch r {
	case RejectUnknownStep:
		return "No such step."
	case RejectDuplicate:
		return "That step is already recorded."
	case RejectOutOfOrder:
		return "Steps must be recorded in order."
	case RejectFinished:
		return "The routine is already finished."
	default:
		return ""
	}
}

// transition is one guarded edge of the session state machine.
type transition struct {
	from    State
	to      State
	guard   func(last, step domain.Step) bool
	archive bool
}

var transitions = []transition{
	{
		from:  StateNotStarted,
		to:    StateInProgress,
		guard: func(_, step domain.Step) bool { return step == domain.FirstStep },
	},
	{
		from:  StateInProgress,
		to:    StateInProgress,
		guard: func(last, step domain.Step) bool { return step == last+1 && step < domain.LastStep },
	},
	{
		from:    StateInProgress,
		to:      StateCompleted,
		guard:   func(last, step domain.Step) bool { return step == last+1 && step == domain.LastStep },
		archive: true,
	},
}

// nextTransition finds the edge that records step, or the reason none does.
func nextTransition(times *domain.StepTimes, last, step domain.Step) (transition, Rejection) {
	if !step.Valid() {
		return transition{}, RejectUnknownStep
	}
	if times.Has(step) {
		return transition{}, RejectDuplicate
	}
	from := stateOf(last)
	if from == StateCompleted {
		return transition{}, RejectFinished
	}
	for _, t := range transitions {
		if t.from == from && t.guard(last, step) {
			return t, RejectNone
		}
	}
	return transition{}, RejectOutOfOrder
}
