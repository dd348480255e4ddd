package out

import (
	"context"
	"math"

	"timebox/internal/modules/insight/domain"
	insightout "timebox/internal/modules/insight/port/out"
	statsin "timebox/internal/modules/stats/port/in"
	"timebox/internal/platform/clock"
)

// StatsMetricsSource derives insight metrics from today's score, the current
// week and the all-time summary.
type StatsMetricsSource struct {
	clock clock.Clock
	stats statsin.Usecase
}

func NewStatsMetricsSource(clk clock.Clock, stats statsin.Usecase) insightout.MetricsSource {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return StatsMetricsSource{clock: clk, stats: stats}
}

func (s StatsMetricsSource) Metrics(ctx context.Context) (domain.Metrics, error) {
	now := s.clock.Now()
	daily, err := s.stats.Daily(ctx, now)
	if err != nil {
		return domain.Metrics{}, err
	}
	weekly, err := s.stats.Weekly(ctx, now)
	if err != nil {
		return domain.Metrics{}, err
	}
	summary, err := s.stats.Summary(ctx)
	if err != nil {
		return domain.Metrics{}, err
	}
	peaks := make([]string, 0, len(summary.PeakHours))
	for _, hour := range summary.PeakHours {
		peaks = append(peaks, domain.FormatHour(hour))
	}
	return domain.Metrics{
		FocusScore:           daily.ProductivityScore,
		PeakHours:            peaks,
		CompletionRate:       int(math.Round(summary.CompletionRate * 100)),
		AverageSessionLength: weekly.AverageSessionLength,
		WeeklyTrend:          domain.TrendFromDelta(weekly.ProductivityTrend),
		TotalSessions:        summary.TotalSessions,
	}, nil
}
