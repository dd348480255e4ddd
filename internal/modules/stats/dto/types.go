package dto

import "time"

type RecordOutput struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration"`
	SessionType     string     `json:"sessionType"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	Completed       bool       `json:"completed"`
	Interrupted     bool       `json:"interrupted"`
}

type DailyOutput struct {
	Date              time.Time `json:"date"`
	SessionCount      int       `json:"sessions"`
	TotalMinutes      int       `json:"totalMinutes"`
	CompletedCount    int       `json:"completedSessions"`
	Streak            int       `json:"streak"`
	ProductivityScore int       `json:"productivityScore"`
}

type HeatmapDayOutput struct {
	Date         time.Time `json:"date"`
	Intensity    int       `json:"value"`
	SessionCount int       `json:"sessions"`
}

type WeeklyOutput struct {
	WeekStart            time.Time          `json:"week"`
	TotalSessions        int                `json:"totalSessions"`
	TotalMinutes         int                `json:"totalMinutes"`
	AverageSessionLength int                `json:"averageSessionLength"`
	ProductivityTrend    float64            `json:"productivityTrend"`
	Heatmap              []HeatmapDayOutput `json:"heatmapData"`
}

type SummaryOutput struct {
	TotalSessions     int            `json:"totalSessions"`
	CompletedSessions int            `json:"completedSessions"`
	TotalMinutes      int            `json:"totalTime"`
	CompletionRate    float64        `json:"completionRate"`
	LongestStreak     int            `json:"longestStreak"`
	MinutesByType     map[string]int `json:"minutesByType"`
	PeakHours         []int          `json:"peakHours"`
}

type ExportOutput struct {
	ExportDate        time.Time      `json:"exportDate"`
	TotalSessions     int            `json:"totalSessions"`
	CompletedSessions int            `json:"completedSessions"`
	TotalMinutes      int            `json:"totalTime"`
	Daily             DailyOutput    `json:"dailyStats"`
	Weekly            WeeklyOutput   `json:"weeklyStats"`
	Sessions          []RecordOutput `json:"sessions"`
}

type ReminderOutput struct {
	Due     bool
	Streak  int
	Message string
}
