package service

import (
	"context"
	"time"

	"github.com/alexanderramin/routine/internal/domain"
	"github.com/alexanderramin/routine/internal/routine"
)

type historyService struct {
	archiver *routine.Archiver
	observer UseCaseObserver
}

func NewHistoryService(archiver *routine.Archiver, observers ...UseCaseObserver) HistoryService {
	return &historyService{archiver: archiver, observer: useCaseObserverOrNoop(observers)}
}

func (s *historyService) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	return s.archiver.History(ctx)
}

func (s *historyService) ExportCSV(ctx context.Context) (out string, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		fields["bytes"] = len(out)
		observe(ctx, s.observer, "export-csv", startedAt, fields, err)
	}()
	return s.archiver.ExportCSV(ctx)
}

func (s *historyService) ClearAll(ctx context.Context) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "clear-history", startedAt, nil, err)
	}()
	return s.archiver.ClearAll(ctx)
}
