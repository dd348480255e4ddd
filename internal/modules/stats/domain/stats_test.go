package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebox/internal/modules/stats/domain"
)

var berlin = mustLoad("Europe/Berlin")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, 3600)
	}
	return loc
}

// Wednesday 2026-03-04 18:00 local.
var now = time.Date(2026, 3, 4, 18, 0, 0, 0, berlin)

func rec(day time.Time, hour, minutes int, completed bool) domain.Record {
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
	end := start.Add(time.Duration(minutes) * time.Minute)
	return domain.Record{
		ID:              start.Format(time.RFC3339),
		DurationMinutes: minutes,
		SessionType:     "focus",
		StartTime:       start,
		EndTime:         &end,
		Completed:       completed,
		Interrupted:     !completed,
	}
}

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func TestStreakCountsConsecutiveDaysEndingToday(t *testing.T) {
	t.Parallel()
	history := []domain.Record{
		rec(daysAgo(0), 9, 25, true),
		rec(daysAgo(1), 9, 25, true),
		rec(daysAgo(2), 9, 25, true),
		rec(daysAgo(3), 9, 25, false),
		rec(daysAgo(4), 9, 25, true),
	}
	assert.Equal(t, 3, domain.ComputeStreak(history, now))
}

func TestStreakSurvivesEmptyToday(t *testing.T) {
	t.Parallel()
	history := []domain.Record{
		rec(daysAgo(1), 9, 25, true),
		rec(daysAgo(2), 9, 25, true),
		rec(daysAgo(0), 8, 25, false),
	}
	assert.Equal(t, 2, domain.ComputeStreak(history, now))
	assert.Equal(t, 0, domain.ComputeStreak(nil, now))
	assert.Equal(t, 0, domain.ComputeStreak([]domain.Record{rec(daysAgo(2), 9, 25, true)}, now))
}

func TestStreakUsesLocalCalendarDays(t *testing.T) {
	t.Parallel()
	// 00:30 Berlin is still the previous day in UTC.
	lateNight := time.Date(2026, 3, 4, 0, 30, 0, 0, berlin)
	history := []domain.Record{
		{DurationMinutes: 25, StartTime: lateNight, Completed: true},
		rec(daysAgo(1), 12, 25, true),
	}
	assert.Equal(t, 2, domain.ComputeStreak(history, now))
}

func TestComputeDaily(t *testing.T) {
	t.Parallel()
	history := []domain.Record{
		rec(daysAgo(0), 9, 25, true),
		rec(daysAgo(0), 11, 45, true),
		rec(daysAgo(0), 14, 15, false),
		rec(daysAgo(1), 9, 25, true),
	}
	daily := domain.ComputeDaily(history, now, now)
	assert.Equal(t, 3, daily.SessionCount)
	assert.Equal(t, 2, daily.CompletedCount)
	assert.Equal(t, 70, daily.TotalMinutes)
	assert.Equal(t, 2, daily.Streak)
	// 20 volume + 2/3*20 ratio + 10 streak + 15 tier = 58.33
	assert.Equal(t, 58, daily.ProductivityScore)
	assert.LessOrEqual(t, daily.CompletedCount, daily.SessionCount)
}

func TestScoreBoundsAndMonotonicity(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, domain.Score(domain.ScoreInput{}))
	assert.Equal(t, 100, domain.Score(domain.ScoreInput{Completed: 10, Total: 10, Streak: 30, CompletedMinutes: 500}))

	for total := 1; total <= 8; total++ {
		for completed := 0; completed <= total; completed++ {
			for streak := 0; streak <= 7; streak++ {
				minutes := completed * 25
				base := domain.Score(domain.ScoreInput{Completed: completed, Total: total, Streak: streak, CompletedMinutes: minutes})
				require.GreaterOrEqual(t, base, 0)
				require.LessOrEqual(t, base, 100)

				moreStreak := domain.Score(domain.ScoreInput{Completed: completed, Total: total, Streak: streak + 1, CompletedMinutes: minutes})
				require.GreaterOrEqual(t, moreStreak, base, "streak %d->%d", streak, streak+1)

				if completed < total {
					moreDone := domain.Score(domain.ScoreInput{Completed: completed + 1, Total: total, Streak: streak, CompletedMinutes: minutes})
					require.GreaterOrEqual(t, moreDone, base, "completed %d->%d of %d", completed, completed+1, total)
				}
				if completed > 0 {
					// same completions over fewer records raises the ratio
					betterRatio := domain.Score(domain.ScoreInput{Completed: completed, Total: maxInt(completed, total-1), Streak: streak, CompletedMinutes: minutes})
					require.GreaterOrEqual(t, betterRatio, base)
				}
			}
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func TestScoreMinuteTiers(t *testing.T) {
	t.Parallel()
	cases := []struct {
		minutes int
		want    int
	}{
		{14, 30}, {15, 35}, {29, 35}, {30, 40}, {59, 40}, {60, 45},
	}
	for _, tc := range cases {
		got := domain.Score(domain.ScoreInput{Completed: 1, Total: 1, CompletedMinutes: tc.minutes})
		assert.Equal(t, tc.want, got, "minutes=%d", tc.minutes)
	}
}

func TestIntensityBoundaries(t *testing.T) {
	t.Parallel()
	cases := map[int]int{0: 0, 29: 0, 30: 1, 59: 1, 60: 2, 89: 2, 90: 3, 119: 3, 120: 4, 600: 4}
	for minutes, want := range cases {
		assert.Equal(t, want, domain.Intensity(minutes), "minutes=%d", minutes)
	}
}

func TestStartOfWeekIsSunday(t *testing.T) {
	t.Parallel()
	ws := domain.StartOfWeek(now)
	assert.Equal(t, time.Sunday, ws.Weekday())
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, berlin), ws)

	sunday := time.Date(2026, 3, 1, 23, 59, 0, 0, berlin)
	assert.Equal(t, ws, domain.StartOfWeek(sunday))
}

func TestComputeWeeklyAndHeatmap(t *testing.T) {
	t.Parallel()
	ws := domain.StartOfWeek(now)
	saturday := ws.AddDate(0, 0, 6)
	history := []domain.Record{
		rec(ws, 9, 45, true),
		rec(ws, 11, 45, true),
		rec(ws.AddDate(0, 0, 1), 9, 25, true),
		rec(ws.AddDate(0, 0, 1), 10, 25, false),
		rec(saturday, 23, 90, true),
		rec(ws.AddDate(0, 0, 7), 9, 25, true),
		rec(ws.AddDate(0, 0, -1), 9, 30, true),
	}
	weekly := domain.ComputeWeekly(history, ws)
	assert.Equal(t, 5, weekly.TotalSessions)
	assert.Equal(t, 205, weekly.TotalMinutes)
	assert.Equal(t, 51, weekly.AverageSessionLength)
	assert.InDelta(t, 1.0, weekly.ProductivityTrend, 1e-9)

	heat := weekly.Heatmap
	assert.Equal(t, ws, heat[0].Date)
	assert.Equal(t, 3, heat[0].Intensity)
	assert.Equal(t, 2, heat[0].SessionCount)
	assert.Equal(t, 0, heat[1].Intensity)
	assert.Equal(t, 1, heat[1].SessionCount)
	assert.Equal(t, 3, heat[6].Intensity)
	for i := 1; i < len(heat); i++ {
		assert.True(t, heat[i].Date.After(heat[i-1].Date))
	}
}

func TestHeatmapBucketsPerDay(t *testing.T) {
	t.Parallel()
	ws := domain.StartOfWeek(now)
	minutes := []int{59, 60, 89, 90, 119, 120, 0}
	want := []int{1, 2, 2, 3, 3, 4, 0}
	var history []domain.Record
	for i, m := range minutes {
		if m > 0 {
			history = append(history, rec(ws.AddDate(0, 0, i), 10, m, true))
		}
	}
	heat := domain.GenerateHeatmap(history, ws)
	for i := range want {
		assert.Equal(t, want[i], heat[i].Intensity, "day %d (%d minutes)", i, minutes[i])
	}
}

func TestComputeTrend(t *testing.T) {
	t.Parallel()
	ws := domain.StartOfWeek(now)
	prev := ws.AddDate(0, 0, -7)

	assert.Equal(t, 0.0, domain.ComputeTrend(nil, ws))
	assert.Equal(t, 1.0, domain.ComputeTrend([]domain.Record{rec(ws, 9, 25, true)}, ws))
	assert.Equal(t, 0.0, domain.ComputeTrend([]domain.Record{rec(ws, 9, 25, false)}, ws))

	up := domain.ComputeTrend([]domain.Record{rec(prev, 9, 50, true), rec(ws, 9, 75, true)}, ws)
	down := domain.ComputeTrend([]domain.Record{rec(prev, 9, 75, true), rec(ws, 9, 50, true)}, ws)
	flat := domain.ComputeTrend([]domain.Record{rec(prev, 9, 50, true), rec(ws, 9, 50, true)}, ws)
	assert.InDelta(t, 0.5, up, 1e-9)
	assert.Less(t, down, 0.0)
	assert.Equal(t, 0.0, flat)

	collapse := domain.ComputeTrend([]domain.Record{rec(prev, 9, 90, true)}, ws)
	assert.Equal(t, -1.0, collapse)
	surge := domain.ComputeTrend([]domain.Record{rec(prev, 9, 10, true), rec(ws, 9, 90, true)}, ws)
	assert.Equal(t, 1.0, surge)
}

func TestSummarizeAndRange(t *testing.T) {
	t.Parallel()
	history := []domain.Record{
		rec(daysAgo(0), 9, 25, true),
		rec(daysAgo(1), 9, 45, true),
		rec(daysAgo(1), 14, 15, false),
		rec(daysAgo(5), 9, 90, true),
		rec(daysAgo(6), 20, 15, true),
	}
	s := domain.Summarize(history, berlin)
	assert.Equal(t, 5, s.TotalSessions)
	assert.Equal(t, 4, s.CompletedSessions)
	assert.Equal(t, 175, s.TotalMinutes)
	assert.InDelta(t, 0.8, s.CompletionRate, 1e-9)
	assert.Equal(t, 2, s.LongestStreak)
	assert.Equal(t, []int{9, 20}, s.PeakHours)
	assert.Equal(t, 175, s.MinutesByType["focus"])

	inRange := domain.SessionsInRange(history, domain.StartOfDay(daysAgo(1)), now)
	assert.Len(t, inRange, 3)
}
