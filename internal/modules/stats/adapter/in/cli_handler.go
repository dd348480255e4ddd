package in

import (
	"context"
	"time"

	statsdto "timebox/internal/modules/stats/dto"
	statsin "timebox/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Daily(ctx context.Context, date time.Time) (statsdto.DailyOutput, error) {
	return h.usecase.Daily(ctx, date)
}

func (h CLIHandler) Weekly(ctx context.Context, ref time.Time) (statsdto.WeeklyOutput, error) {
	return h.usecase.Weekly(ctx, ref)
}

func (h CLIHandler) Range(ctx context.Context, start, end time.Time) ([]statsdto.RecordOutput, error) {
	return h.usecase.Range(ctx, start, end)
}

func (h CLIHandler) Summary(ctx context.Context) (statsdto.SummaryOutput, error) {
	return h.usecase.Summary(ctx)
}

func (h CLIHandler) Export(ctx context.Context) (statsdto.ExportOutput, error) {
	return h.usecase.Export(ctx)
}

func (h CLIHandler) Reminder(ctx context.Context) (statsdto.ReminderOutput, error) {
	return h.usecase.Reminder(ctx)
}
