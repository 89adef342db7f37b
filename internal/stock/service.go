package stock

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Service exposes the stock report. Concurrent identical report requests
// are collapsed through singleflight; nothing is cached between calls.
type Service struct {
	repo   Repository
	logger *slog.Logger
	group  singleflight.Group
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Report(ctx context.Context) ([]ReportRow, error) {
	result, err, _ := s.group.Do("report", func() (interface{}, error) {
		return s.repo.Report(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]ReportRow), nil
}

// AvailableFor exposes availability per product for callers outside the
// order engine's transaction, such as the low-stock scan job.
func (s *Service) AvailableFor(ctx context.Context, productIDs []int64) (map[int64]int64, error) {
	totals, err := s.repo.TotalsFor(ctx, productIDs, 0)
	if err != nil {
		return nil, err
	}
	available := make(map[int64]int64, len(totals))
	for id, t := range totals {
		available[id] = t.Available()
	}
	return available, nil
}
