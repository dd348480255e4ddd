package service

import (
	"context"
	"fmt"
	"time"

	"timebox/internal/modules/stats/domain"
	statsout "timebox/internal/modules/stats/port/out"
	"timebox/internal/platform/clock"
)

// StatsService recomputes everything from history on each call; nothing is cached.
type StatsService struct {
	clock   clock.Clock
	loc     *time.Location
	history statsout.HistoryReader
}

func NewStatsService(clock clock.Clock, loc *time.Location, history statsout.HistoryReader) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{clock: clock, loc: loc, history: history}
}

func (s *StatsService) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *StatsService) Daily(ctx context.Context, date time.Time) (domain.DailyStats, error) {
	history, err := s.read(ctx)
	if err != nil {
		return domain.DailyStats{}, err
	}
	now := s.Now()
	if date.IsZero() {
		date = now
	}
	return domain.ComputeDaily(history, date.In(s.loc), now), nil
}

func (s *StatsService) Weekly(ctx context.Context, ref time.Time) (domain.WeeklyStats, error) {
	history, err := s.read(ctx)
	if err != nil {
		return domain.WeeklyStats{}, err
	}
	if ref.IsZero() {
		ref = s.Now()
	}
	return domain.ComputeWeekly(history, domain.StartOfWeek(ref.In(s.loc))), nil
}

func (s *StatsService) Range(ctx context.Context, start, end time.Time) ([]domain.Record, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s is before start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	history, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SessionsInRange(history, start, end), nil
}

func (s *StatsService) Summary(ctx context.Context) (domain.Summary, error) {
	history, err := s.read(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(history, s.loc), nil
}

func (s *StatsService) History(ctx context.Context) ([]domain.Record, error) {
	return s.read(ctx)
}

// ReminderDue reports whether a live streak is at risk: no completed session yet
// today while yesterday's run is still counting.
func (s *StatsService) ReminderDue(ctx context.Context) (bool, int, error) {
	history, err := s.read(ctx)
	if err != nil {
		return false, 0, err
	}
	now := s.Now()
	streak := domain.ComputeStreak(history, now)
	if streak == 0 {
		return false, 0, nil
	}
	for _, r := range history {
		if r.Completed && domain.SameDay(r.StartTime, now, s.loc) {
			return false, streak, nil
		}
	}
	return true, streak, nil
}

func (s *StatsService) read(ctx context.Context) ([]domain.Record, error) {
	history, err := s.history.ReadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return history, nil
}
