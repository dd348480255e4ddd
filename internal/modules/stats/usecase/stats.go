package usecase

import (
	"context"
	"fmt"
	"time"

	"timebox/internal/modules/stats/domain"
	statsdto "timebox/internal/modules/stats/dto"
	statsin "timebox/internal/modules/stats/port/in"
	statsout "timebox/internal/modules/stats/port/out"
	"timebox/internal/modules/stats/service"
	apperrors "timebox/internal/platform/errors"
)

const (
	featureAdvancedStats = "advanced_stats"
	featureExportData    = "export_data"
)

type Interactor struct {
	svc  *service.StatsService
	gate statsout.FeatureGate
}

// NewInteractor builds the stats usecase. A nil gate unlocks every view.
func NewInteractor(svc *service.StatsService, gate statsout.FeatureGate) statsin.Usecase {
	return &Interactor{svc: svc, gate: gate}
}

func (i *Interactor) Daily(ctx context.Context, date time.Time) (statsdto.DailyOutput, error) {
	daily, err := i.svc.Daily(ctx, date)
	if err != nil {
		return statsdto.DailyOutput{}, err
	}
	return toDailyOutput(daily), nil
}

func (i *Interactor) Weekly(ctx context.Context, ref time.Time) (statsdto.WeeklyOutput, error) {
	if err := i.require(ctx, featureAdvancedStats); err != nil {
		return statsdto.WeeklyOutput{}, err
	}
	weekly, err := i.svc.Weekly(ctx, ref)
	if err != nil {
		return statsdto.WeeklyOutput{}, err
	}
	return toWeeklyOutput(weekly), nil
}

func (i *Interactor) Range(ctx context.Context, start, end time.Time) ([]statsdto.RecordOutput, error) {
	records, err := i.svc.Range(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return toRecordOutputs(records), nil
}

func (i *Interactor) Summary(ctx context.Context) (statsdto.SummaryOutput, error) {
	if err := i.require(ctx, featureAdvancedStats); err != nil {
		return statsdto.SummaryOutput{}, err
	}
	summary, err := i.svc.Summary(ctx)
	if err != nil {
		return statsdto.SummaryOutput{}, err
	}
	return statsdto.SummaryOutput{
		TotalSessions:     summary.TotalSessions,
		CompletedSessions: summary.CompletedSessions,
		TotalMinutes:      summary.TotalMinutes,
		CompletionRate:    summary.CompletionRate,
		LongestStreak:     summary.LongestStreak,
		MinutesByType:     summary.MinutesByType,
		PeakHours:         summary.PeakHours,
	}, nil
}

func (i *Interactor) Export(ctx context.Context) (statsdto.ExportOutput, error) {
	if err := i.require(ctx, featureExportData); err != nil {
		return statsdto.ExportOutput{}, err
	}
	history, err := i.svc.History(ctx)
	if err != nil {
		return statsdto.ExportOutput{}, err
	}
	now := i.svc.Now()
	summary := domain.Summarize(history, now.Location())
	return statsdto.ExportOutput{
		ExportDate:        now,
		TotalSessions:     summary.TotalSessions,
		CompletedSessions: summary.CompletedSessions,
		TotalMinutes:      summary.TotalMinutes,
		Daily:             toDailyOutput(domain.ComputeDaily(history, now, now)),
		Weekly:            toWeeklyOutput(domain.ComputeWeekly(history, domain.StartOfWeek(now))),
		Sessions:          toRecordOutputs(history),
	}, nil
}

func (i *Interactor) Reminder(ctx context.Context) (statsdto.ReminderOutput, error) {
	due, streak, err := i.svc.ReminderDue(ctx)
	if err != nil {
		return statsdto.ReminderOutput{}, err
	}
	out := statsdto.ReminderOutput{Due: due, Streak: streak}
	if due {
		out.Message = fmt.Sprintf("Your %d-day streak ends tonight. One focus session keeps it alive.", streak)
	}
	return out, nil
}

func (i *Interactor) require(ctx context.Context, feature string) error {
	if i.gate == nil {
		return nil
	}
	ok, err := i.gate.Allowed(ctx, feature)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrFeatureLocked, feature)
	}
	return nil
}

func toDailyOutput(d domain.DailyStats) statsdto.DailyOutput {
	return statsdto.DailyOutput{
		Date:              d.Date,
		SessionCount:      d.SessionCount,
		TotalMinutes:      d.TotalMinutes,
		CompletedCount:    d.CompletedCount,
		Streak:            d.Streak,
		ProductivityScore: d.ProductivityScore,
	}
}

func toWeeklyOutput(w domain.WeeklyStats) statsdto.WeeklyOutput {
	heatmap := make([]statsdto.HeatmapDayOutput, 0, len(w.Heatmap))
	for _, day := range w.Heatmap {
		heatmap = append(heatmap, statsdto.HeatmapDayOutput{Date: day.Date, Intensity: day.Intensity, SessionCount: day.SessionCount})
	}
	return statsdto.WeeklyOutput{
		WeekStart:            w.WeekStart,
		TotalSessions:        w.TotalSessions,
		TotalMinutes:         w.TotalMinutes,
		AverageSessionLength: w.AverageSessionLength,
		ProductivityTrend:    w.ProductivityTrend,
		Heatmap:              heatmap,
	}
}

func toRecordOutputs(records []domain.Record) []statsdto.RecordOutput {
	out := make([]statsdto.RecordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, statsdto.RecordOutput{
			ID:              r.ID,
			Title:           r.Title,
			DurationMinutes: r.DurationMinutes,
			SessionType:     r.SessionType,
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			Completed:       r.Completed,
			Interrupted:     r.Interrupted,
		})
	}
	return out
}
