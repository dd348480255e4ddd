package in

import (
	"context"
	"time"

	"timebox/internal/modules/stats/dto"
)

type Usecase interface {
	Daily(ctx context.Context, date time.Time) (dto.DailyOutput, error)
	// Weekly covers the Sunday-based week containing ref. Requires advanced_stats.
	Weekly(ctx context.Context, ref time.Time) (dto.WeeklyOutput, error)
	Range(ctx context.Context, start, end time.Time) ([]dto.RecordOutput, error)
	// Summary requires advanced_stats.
	Summary(ctx context.Context) (dto.SummaryOutput, error)
	// Export requires export_data.
	Export(ctx context.Context) (dto.ExportOutput, error)
	Reminder(ctx context.Context) (dto.ReminderOutput, error)
}
