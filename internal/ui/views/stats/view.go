package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdto "timebox/internal/modules/stats/dto"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/ui/components"
	"timebox/internal/ui/theme"
)

// Port is the slice of the stats use-case this tab reads.
type Port interface {
	Daily(ctx context.Context, date time.Time) (statsdto.DailyOutput, error)
	Weekly(ctx context.Context, ref time.Time) (statsdto.WeeklyOutput, error)
	Summary(ctx context.Context) (statsdto.SummaryOutput, error)
}

// LoadedMsg carries one full refresh. Weekly and Summary are nil when the
// advanced view is locked.
type LoadedMsg struct {
	Daily   statsdto.DailyOutput
	Weekly  *statsdto.WeeklyOutput
	Summary *statsdto.SummaryOutput
	Locked  bool
	Err     error
}

type Model struct {
	port    Port
	spinner spinner.Model
	loading bool
	last    LoadedMsg
	width   int
	height  int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload fetches fresh numbers; callers use it after a session ends or a purchase.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		m.loading = false
		m.last = msg
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "R" {
			return m, m.Reload()
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading && m.last.Daily.Date.IsZero() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Loading stats…")
	}
	if m.last.Err != nil {
		return theme.Bad.Render("stats: " + m.last.Err.Error())
	}
	paneW := max(24, m.width/2-4)
	today := theme.Pane.Width(paneW).Render(renderDaily(m.last.Daily))
	var week string
	switch {
	case m.last.Locked:
		week = theme.Pane.Width(paneW).Render(theme.Locked.Render("Weekly trends, heatmap and summary are Pro features.") + "\n" +
			theme.Muted.Render("Run :pro:purchase to unlock."))
	case m.last.Weekly != nil:
		week = theme.Pane.Width(paneW).Render(renderWeekly(*m.last.Weekly, m.last.Summary))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, today, week) + "\n" + theme.Muted.Render("R: refresh")
}

func renderDaily(d statsdto.DailyOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Today") + "\n\n")
	fmt.Fprintf(&sb, "Sessions    %d (%d completed)\n", d.SessionCount, d.CompletedCount)
	fmt.Fprintf(&sb, "Focus time  %d min\n", d.TotalMinutes)
	fmt.Fprintf(&sb, "Streak      %d day(s)\n", d.Streak)
	fmt.Fprintf(&sb, "Score       %3d %s", d.ProductivityScore, components.Bar(d.ProductivityScore, 100, 20))
	return sb.String()
}

func renderWeekly(w statsdto.WeeklyOutput, s *statsdto.SummaryOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Week of "+w.WeekStart.Format("Jan 2")) + "\n\n")
	fmt.Fprintf(&sb, "%d sessions, %d min, avg %d min\n", w.TotalSessions, w.TotalMinutes, w.AverageSessionLength)
	trend := fmt.Sprintf("%+.0f%% vs last week", w.ProductivityTrend*100)
	if w.ProductivityTrend < 0 {
		sb.WriteString(theme.Bad.Render(trend))
	} else {
		sb.WriteString(theme.Good.Render(trend))
	}
	sb.WriteString("\n\n" + components.Heatmap(w.Heatmap) + "\n")
	if s != nil {
		sb.WriteString("\n" + theme.Title.Render("All time") + "\n")
		fmt.Fprintf(&sb, "%d sessions, %.0f%% completed, longest streak %d\n", s.TotalSessions, s.CompletionRate*100, s.LongestStreak)
		types := make([]string, 0, len(s.MinutesByType))
		for t := range s.MinutesByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(&sb, "  %-7s %d min\n", t, s.MinutesByType[t])
		}
	}
	return sb.String()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now()
		daily, err := m.port.Daily(ctx, now)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		out := LoadedMsg{Daily: daily}
		weekly, err := m.port.Weekly(ctx, now)
		if errors.Is(err, apperrors.ErrFeatureLocked) {
			out.Locked = true
			return out
		}
		if err != nil {
			return LoadedMsg{Err: err}
		}
		out.Weekly = &weekly
		summary, err := m.port.Summary(ctx)
		if err == nil {
			out.Summary = &summary
		}
		return out
	}
}
