package domain

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindProductivity Kind = "productivity"
	KindFocus        Kind = "focus"
	KindBreak        Kind = "break"
	KindOptimization Kind = "optimization"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// trendThreshold is the weekly trend magnitude below which a week counts as stable.
const trendThreshold = 0.1

const (
	focusScoreFloor     = 70
	completionRateFloor = 80
)

// BuiltinSource marks insights produced in-process rather than by a provider.
const BuiltinSource = "builtin"

// Metrics is the input every insight rule and provider sees.
// CompletionRate is a percentage in [0,100].
type Metrics struct {
	FocusScore           int      `json:"focusScore"`
	PeakHours            []string `json:"peakHours"`
	CompletionRate       int      `json:"sessionCompletionRate"`
	AverageSessionLength int      `json:"averageSessionLength"`
	WeeklyTrend          Trend    `json:"weeklyTrend"`
	TotalSessions        int      `json:"totalSessions"`
}

type Insight struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Confidence float64   `json:"confidence"`
	Actionable bool      `json:"actionable"`
	Category   string    `json:"category"`
	Source     string    `json:"source"`
	At         time.Time `json:"timestamp"`
}

func (i Insight) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("insight title is required")
	}
	if strings.TrimSpace(i.Message) == "" {
		return fmt.Errorf("insight message is required")
	}
	if i.Confidence < 0 || i.Confidence > 1 {
		return fmt.Errorf("insight confidence must be within [0,1]")
	}
	return nil
}

func TrendFromDelta(delta float64) Trend {
	switch {
	case delta > trendThreshold:
		return TrendImproving
	case delta < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// FormatHour renders a 0..23 hour as "HH:00".
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// Evaluate applies the built-in rules in a fixed order.
func Evaluate(m Metrics, now time.Time) []Insight {
	stamp := now.UnixMilli()
	out := make([]Insight, 0, 4)
	if m.FocusScore < focusScoreFloor {
		out = append(out, Insight{
			ID:         fmt.Sprintf("focus-%d", stamp),
			Kind:       KindFocus,
			Title:      "Focus Optimization",
			Message:    fmt.Sprintf("Your focus score is %d%%. Try shorter sessions with more breaks.", m.FocusScore),
			Confidence: 0.85,
			Actionable: true,
			Category:   "Performance",
		})
	}
	if len(m.PeakHours) > 0 {
		out = append(out, Insight{
			ID:         fmt.Sprintf("peak-%d", stamp),
			Kind:       KindProductivity,
			Title:      "Peak Performance Hours",
			Message:    fmt.Sprintf("You're most productive at %s. Schedule important tasks then.", strings.Join(m.PeakHours, ", ")),
			Confidence: 0.92,
			Actionable: true,
			Category:   "Timing",
		})
	}
	if m.CompletionRate < completionRateFloor {
		out = append(out, Insight{
			ID:         fmt.Sprintf("completion-%d", stamp),
			Kind:       KindOptimization,
			Title:      "Session Completion",
			Message:    fmt.Sprintf("%d%% completion rate. Consider shorter sessions or identify interruption patterns.", m.CompletionRate),
			Confidence: 0.78,
			Actionable: true,
			Category:   "Efficiency",
		})
	}
	if m.WeeklyTrend == TrendDeclining {
		out = append(out, Insight{
			ID:         fmt.Sprintf("trend-%d", stamp),
			Kind:       KindProductivity,
			Title:      "Performance Trend",
			Message:    "Your productivity has been declining this week. Consider adjusting your routine or taking a longer break.",
			Confidence: 0.88,
			Actionable: true,
			Category:   "Wellness",
		})
	}
	for i := range out {
		out[i].Source = BuiltinSource
		out[i].At = now
	}
	return out
}

var recommendations = []string{
	"Try the 45-minute Deep Focus session for complex tasks",
	"Take a 15-minute walk between sessions to boost creativity",
	"Schedule your most challenging work during your peak hours",
	"Consider a longer break after 3 consecutive sessions",
}

// Recommendations returns at most n generic suggestions.
func Recommendations(n int) []string {
	if n <= 0 || n > len(recommendations) {
		n = len(recommendations)
	}
	out := make([]string, n)
	copy(out, recommendations[:n])
	return out
}
