package routine

// Store keys. Values are JSON except routineSaved, which is presence-only.
const (
	KeyCurrentRoutine = "currentRoutine"
	KeyRoutineSaved   = "routineSaved"
	KeyHistory        = "history"
	KeyDailyInputs    = "dailyInputs"
)
