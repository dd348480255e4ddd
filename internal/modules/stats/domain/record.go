package domain

import "time"

// Record is the read-side view of one finalized session.
type Record struct {
	ID              string
	Title           string
	DurationMinutes int
	SessionType     string
	StartTime       time.Time
	EndTime         *time.Time
	Completed       bool
	Interrupted     bool
}

type DailyStats struct {
	Date              time.Time
	SessionCount      int
	TotalMinutes      int
	CompletedCount    int
	Streak            int
	ProductivityScore int
}

type HeatmapDay struct {
	Date         time.Time
	Intensity    int
	SessionCount int
}

type WeeklyStats struct {
	WeekStart            time.Time
	TotalSessions        int
	TotalMinutes         int
	AverageSessionLength int
	ProductivityTrend    float64
	Heatmap              [7]HeatmapDay
}

type Summary struct {
	TotalSessions     int
	CompletedSessions int
	TotalMinutes      int
	CompletionRate    float64
	LongestStreak     int
	MinutesByType     map[string]int
	PeakHours         []int
}
