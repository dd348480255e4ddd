package domain

import (
	"math"
	"sort"
	"time"
)

const (
	maxVolumePoints      = 40
	pointsPerCompleted   = 10
	completionRatePoints = 20
	maxStreakPoints      = 25
	pointsPerStreakDay   = 5
)

// ComputeDaily summarizes the records started on date's calendar day. The streak is
// computed relative to now and is not scoped to date.
func ComputeDaily(history []Record, date, now time.Time) DailyStats {
	loc := date.Location()
	day := make([]Record, 0)
	completed := make([]Record, 0)
	for _, r := range history {
		if !SameDay(r.StartTime, date, loc) {
			continue
		}
		day = append(day, r)
		if r.Completed {
			completed = append(completed, r)
		}
	}
	streak := ComputeStreak(history, now)
	return DailyStats{
		Date:              StartOfDay(date),
		SessionCount:      len(day),
		TotalMinutes:      sumMinutes(completed),
		CompletedCount:    len(completed),
		Streak:            streak,
		ProductivityScore: ComputeScore(day, completed, streak),
	}
}

// ComputeStreak counts consecutive days with a completed session, walking back from
// today. A still-empty today does not break the streak.
func ComputeStreak(history []Record, now time.Time) int {
	days := completedDays(history, now.Location())
	day := civilDay(now, now.Location())
	if !days[day] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak is the longest run of consecutive completed days anywhere in history.
func LongestStreak(history []Record, loc *time.Location) int {
	days := completedDays(history, loc)
	longest := 0
	for day := range days {
		if days[day.AddDate(0, 0, -1)] {
			continue
		}
		run := 0
		for d := day; days[d]; d = d.AddDate(0, 0, 1) {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

type ScoreInput struct {
	Completed        int
	Total            int
	Streak           int
	CompletedMinutes int
}

func ComputeScore(dayRecords, completedRecords []Record, streak int) int {
	return Score(ScoreInput{
		Completed:        len(completedRecords),
		Total:            len(dayRecords),
		Streak:           streak,
		CompletedMinutes: sumMinutes(completedRecords),
	})
}

// Score is the 0-100 productivity score: volume, completion ratio, streak and a
// minutes tier, summed then rounded and clamped.
func Score(in ScoreInput) int {
	score := math.Min(float64(in.Completed*pointsPerCompleted), maxVolumePoints)
	if in.Total > 0 {
		score += float64(in.Completed) / float64(in.Total) * completionRatePoints
	}
	score += math.Min(float64(in.Streak*pointsPerStreakDay), maxStreakPoints)
	switch {
	case in.CompletedMinutes >= 60:
		score += 15
	case in.CompletedMinutes >= 30:
		score += 10
	case in.CompletedMinutes >= 15:
		score += 5
	}
	return int(math.Max(0, math.Round(math.Min(score, 100))))
}

// ComputeWeekly aggregates the seven calendar days starting at weekStart.
func ComputeWeekly(history []Record, weekStart time.Time) WeeklyStats {
	weekStart = StartOfDay(weekStart)
	week := inWindow(history, weekStart, 7)
	completed := 0
	minutes := 0
	for _, r := range week {
		if r.Completed {
			completed++
			minutes += r.DurationMinutes
		}
	}
	average := 0
	if completed > 0 {
		average = int(math.Round(float64(minutes) / float64(completed)))
	}
	return WeeklyStats{
		WeekStart:            weekStart,
		TotalSessions:        len(week),
		TotalMinutes:         minutes,
		AverageSessionLength: average,
		ProductivityTrend:    ComputeTrend(history, weekStart),
		Heatmap:              GenerateHeatmap(history, weekStart),
	}
}

// ComputeTrend compares completed minutes of the week at weekStart with the week before,
// clamped to [-1, 1].
func ComputeTrend(history []Record, weekStart time.Time) float64 {
	weekStart = StartOfDay(weekStart)
	current := sumMinutes(completedOnly(inWindow(history, weekStart, 7)))
	previous := sumMinutes(completedOnly(inWindow(history, addDays(weekStart, -7), 7)))
	if previous == 0 {
		if current > 0 {
			return 1
		}
		return 0
	}
	trend := float64(current-previous) / float64(previous)
	return math.Max(-1, math.Min(1, trend))
}

func GenerateHeatmap(history []Record, weekStart time.Time) [7]HeatmapDay {
	weekStart = StartOfDay(weekStart)
	loc := weekStart.Location()
	var out [7]HeatmapDay
	for i := range out {
		date := addDays(weekStart, i)
		minutes := 0
		count := 0
		for _, r := range history {
			if r.Completed && SameDay(r.StartTime, date, loc) {
				minutes += r.DurationMinutes
				count++
			}
		}
		out[i] = HeatmapDay{Date: date, Intensity: Intensity(minutes), SessionCount: count}
	}
	return out
}

// Intensity buckets a day's completed minutes into 0-4.
func Intensity(minutes int) int {
	switch {
	case minutes >= 120:
		return 4
	case minutes >= 90:
		return 3
	case minutes >= 60:
		return 2
	case minutes >= 30:
		return 1
	default:
		return 0
	}
}

// SessionsInRange returns records whose start falls in [start, end], inclusive.
func SessionsInRange(history []Record, start, end time.Time) []Record {
	out := make([]Record, 0)
	for _, r := range history {
		if r.StartTime.Before(start) || r.StartTime.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

const peakHourCount = 3

func Summarize(history []Record, loc *time.Location) Summary {
	summary := Summary{MinutesByType: map[string]int{}}
	hours := map[int]int{}
	for _, r := range history {
		summary.TotalSessions++
		if !r.Completed {
			continue
		}
		summary.CompletedSessions++
		summary.TotalMinutes += r.DurationMinutes
		summary.MinutesByType[r.SessionType] += r.DurationMinutes
		hours[r.StartTime.In(loc).Hour()]++
	}
	if summary.TotalSessions > 0 {
		summary.CompletionRate = float64(summary.CompletedSessions) / float64(summary.TotalSessions)
	}
	summary.LongestStreak = LongestStreak(history, loc)
	summary.PeakHours = peakHours(hours, peakHourCount)
	return summary
}

// peakHours returns up to n hours with the most completed sessions, busiest first,
// earlier hour on ties.
func peakHours(counts map[int]int, n int) []int {
	hours := make([]int, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		if counts[hours[i]] != counts[hours[j]] {
			return counts[hours[i]] > counts[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > n {
		hours = hours[:n]
	}
	return hours
}

func inWindow(history []Record, start time.Time, days int) []Record {
	loc := start.Location()
	first := civilDay(start, loc)
	last := first.AddDate(0, 0, days-1)
	out := make([]Record, 0)
	for _, r := range history {
		d := civilDay(r.StartTime, loc)
		if d.Before(first) || d.After(last) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func completedDays(history []Record, loc *time.Location) map[time.Time]bool {
	days := map[time.Time]bool{}
	for _, r := range history {
		if r.Completed {
			days[civilDay(r.StartTime, loc)] = true
		}
	}
	return days
}

func completedOnly(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Completed {
			out = append(out, r)
		}
	}
	return out
}

func sumMinutes(records []Record) int {
	total := 0
	for _, r := range records {
		total += r.DurationMinutes
	}
	return total
}
