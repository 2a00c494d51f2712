package report

import (
	"context"
	"fmt"
	"time"
)

// Service is the reporting aggregator. Pure read side: safe to call
// repeatedly and concurrently, no side effects.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Summary computes the dashboard snapshot. "Today" and "this month" are
// calendar windows in UTC anchored at the moment of the call.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	summary, err := s.repo.Snapshot(ctx, dayStart, monthStart)
	if err != nil {
		return nil, fmt.Errorf("report snapshot: %w", err)
	}

	summary.GeneratedAt = now
	return summary, nil
}
