package out

import (
	"context"

	"timebox/internal/modules/stats/domain"
	statsout "timebox/internal/modules/stats/port/out"
	timerin "timebox/internal/modules/timer/port/in"
)

// TimerHistoryAdapter reads the session log through the timer module.
type TimerHistoryAdapter struct {
	timer timerin.Usecase
}

func NewTimerHistoryAdapter(timer timerin.Usecase) statsout.HistoryReader {
	return TimerHistoryAdapter{timer: timer}
}

func (a TimerHistoryAdapter) ReadHistory(ctx context.Context) ([]domain.Record, error) {
	sessions, err := a.timer.History(ctx, 0)
	if err != nil {
		return nil, err
	}
	records := make([]domain.Record, 0, len(sessions))
	for _, s := range sessions {
		records = append(records, domain.Record{
			ID:              s.ID,
			Title:           s.Title,
			DurationMinutes: s.DurationMinutes,
			SessionType:     s.SessionType,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			Completed:       s.Completed,
			Interrupted:     s.Interrupted,
		})
	}
	return records, nil
}
