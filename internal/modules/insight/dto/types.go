package dto

import "time"

type MetricsOutput struct {
	FocusScore           int      `json:"focusScore"`
	PeakHours            []string `json:"peakHours"`
	CompletionRate       int      `json:"sessionCompletionRate"`
	AverageSessionLength int      `json:"averageSessionLength"`
	WeeklyTrend          string   `json:"weeklyTrend"`
}

type InsightOutput struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Confidence float64   `json:"confidence"`
	Actionable bool      `json:"actionable"`
	Category   string    `json:"category"`
	Source     string    `json:"source"`
	At         time.Time `json:"timestamp"`
}

type ReportOutput struct {
	Metrics         MetricsOutput   `json:"metrics"`
	Insights        []InsightOutput `json:"insights"`
	Recommendations []string        `json:"recommendations"`
	// Failed lists providers that errored and were skipped.
	Failed []string `json:"failedProviders,omitempty"`
}

type ProviderInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}
