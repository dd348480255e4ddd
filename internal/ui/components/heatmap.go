package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	statsdto "timebox/internal/modules/stats/dto"
	"timebox/internal/ui/theme"
)

// Heatmap renders one cell per day, labelled with its weekday and session count.
func Heatmap(days []statsdto.HeatmapDayOutput) string {
	if len(days) == 0 {
		return theme.Muted.Render("no data")
	}
	cells := make([]string, 0, len(days))
	for _, day := range days {
		cells = append(cells, heatCell(day))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func heatCell(day statsdto.HeatmapDayOutput) string {
	level := day.Intensity
	if level < 0 {
		level = 0
	}
	if level >= len(theme.Heat) {
		level = len(theme.Heat) - 1
	}
	block := lipgloss.NewStyle().
		Background(theme.Heat[level]).
		Width(4).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("%d", day.SessionCount))
	label := theme.Muted.Render(day.Date.Format("Mon")[:2])
	return lipgloss.NewStyle().PaddingRight(1).Render(
		lipgloss.JoinVertical(lipgloss.Center, label, block),
	)
}

// Bar draws a fixed-width textual gauge for value/max.
func Bar(value, max, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > 0 {
		filled = value * width / max
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return theme.Good.Render(strings.Repeat("█", filled)) + theme.Muted.Render(strings.Repeat("░", width-filled))
}
