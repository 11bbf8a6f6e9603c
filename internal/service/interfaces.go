package service

import (
	"context"

	"github.com/alexanderramin/routine/internal/domain"
	"github.com/alexanderramin/routine/internal/routine"
)

// Status is a read-only view of the current session.
type Status struct {
	State    routine.State
	Expected routine.Expected
	Steps    []routine.StepView
	Total    *domain.Elapsed
	Daily    domain.DailyInputs
}

type RoutineService interface {
	Status(ctx context.Context) Status
	Record(ctx context.Context, step domain.Step) (routine.StepResult, error)
	// RecordNext records whichever step is expected next.
	RecordNext(ctx context.Context) (routine.StepResult, error)
	Edit(ctx context.Context, step domain.Step, at domain.ClockTime) error
	Reset(ctx context.Context) error
	// Save archives the current run even if it is not finished.
	Save(ctx context.Context) (*domain.HistoryEntry, error)
	SetDailyInputs(ctx context.Context, d domain.DailyInputs) error
}

type HistoryService interface {
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	ExportCSV(ctx context.Context) (string, error)
	ClearAll(ctx context.Context) error
}
