package service

import (
	"context"
	"time"

	"github.com/alexanderramin/routine/internal/domain"
	"github.com/alexanderramin/routine/internal/routine"
)

type routineService struct {
	session  *routine.Session
	observer UseCaseObserver
}

func NewRoutineService(session *routine.Session, observers ...UseCaseObserver) RoutineService {
	return &routineService{session: session, observer: useCaseObserverOrNoop(observers)}
}

func (s *routineService) Status(_ context.Context) Status {
	st := Status{
		State:    s.session.State(),
		Expected: s.session.CurrentExpectedStep(),
		Steps:    s.session.Steps(),
		Daily:    s.session.DailyInputs(),
	}
	if total, ok := s.session.TotalElapsed(); ok {
		st.Total = &total
	}
	return st
}

func (s *routineService) Record(ctx context.Context, step domain.Step) (res routine.StepResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"step": int(step)}
	defer func() {
		fields["accepted"] = res.Accepted
		if res.Rejection != routine.RejectNone {
			fields["rejection"] = string(res.Rejection)
		}
		if res.Archived != nil {
			fields["archived_id"] = res.Archived.ID
		}
		observe(ctx, s.observer, "record-step", startedAt, fields, err)
	}()

	return s.session.RecordStep(ctx, step)
}

func (s *routineService) RecordNext(ctx context.Context) (routine.StepResult, error) {
	next := s.session.CurrentExpectedStep()
	if next.Finished {
		return routine.StepResult{Rejection: routine.RejectFinished, State: s.session.State()}, nil
	}
	return s.Record(ctx, next.Step)
}

func (s *routineService) Edit(ctx context.Context, step domain.Step, at domain.ClockTime) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "edit-step", startedAt, map[string]any{"step": int(step), "time": at.String()}, err)
	}()
	return s.session.EditStep(ctx, step, at)
}

func (s *routineService) Reset(ctx context.Context) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "reset", startedAt, nil, err)
	}()
	return s.session.Reset(ctx)
}

func (s *routineService) Save(ctx context.Context) (entry *domain.HistoryEntry, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"recorded": int(s.session.LastCompleted())}
	defer func() {
		if entry != nil {
			fields["total_min"] = entry.TotalMinutes
		}
		observe(ctx, s.observer, "force-save", startedAt, fields, err)
	}()
	return s.session.Archiver().ForceSave(ctx, s.session, nil)
}

func (s *routineService) SetDailyInputs(ctx context.Context, d domain.DailyInputs) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "set-daily-inputs", startedAt, nil, err)
	}()
	return s.session.SetDailyInputs(ctx, d)
}
