package timer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	premiumdto "timebox/internal/modules/premium/dto"
	timerdto "timebox/internal/modules/timer/dto"
	"timebox/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is what the Timer tab needs from the timer and premium use-cases.
type Port interface {
	Start(ctx context.Context, sessionType string, minutes int, title string) (timerdto.StatusOutput, error)
	Pause(ctx context.Context) (timerdto.StatusOutput, error)
	Resume(ctx context.Context) (timerdto.StatusOutput, error)
	Stop(ctx context.Context) (timerdto.SessionOutput, error)
	Reset(ctx context.Context) (timerdto.StatusOutput, error)
	Status(ctx context.Context) (timerdto.StatusOutput, error)
	Presets(ctx context.Context) ([]premiumdto.PresetOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// StatusMsg carries the result of any timer command or refresh.
type StatusMsg struct {
	Status timerdto.StatusOutput
	Note   string
	Err    error
}

// PresetsLoadedMsg is sent once the preset table (with lock state) is read.
type PresetsLoadedMsg struct {
	Presets []premiumdto.PresetOutput
	Err     error
}

type refreshMsg time.Time

const refreshInterval = time.Second

// ─── list item ───────────────────────────────────────────────────────────────

type presetItem struct{ p premiumdto.PresetOutput }

func (i presetItem) Title() string {
	if !i.p.Unlocked {
		return i.p.Label + "  (pro)"
	}
	return i.p.Label
}

func (i presetItem) Description() string {
	if i.p.ID == "custom" {
		return "any length, 1 to 480 min"
	}
	return fmt.Sprintf("%d min", i.p.Minutes)
}

func (i presetItem) FilterValue() string { return i.p.ID + " " + i.p.Label }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	presets list.Model
	bar     progress.Model
	status  timerdto.StatusOutput
	note    string
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Presets"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return Model{
		port:    port,
		presets: l,
		bar:     progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Green)), progress.WithoutPercentage()),
		status:  timerdto.StatusOutput{State: "idle"},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPresetsCmd(), m.RefreshCmd(), scheduleRefresh())
}

// Active reports whether a session is running, paused or completing.
func (m Model) Active() bool { return m.status.Active }

func (m Model) State() string { return m.status.State }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.presets.SetSize(m.width*3/10, m.height-2)
		m.bar.Width = max(10, m.width*7/10-10)

	case PresetsLoadedMsg:
		if msg.Err != nil {
			m.note = "presets: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.Presets))
		for _, p := range msg.Presets {
			items = append(items, presetItem{p: p})
		}
		return m, m.presets.SetItems(items)

	case StatusMsg:
		if msg.Err != nil {
			m.note = msg.Err.Error()
			return m, nil
		}
		m.status = msg.Status
		if msg.Note != "" {
			m.note = msg.Note
		}

	case refreshMsg:
		return m, tea.Batch(m.RefreshCmd(), scheduleRefresh())

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.presets.SelectedItem().(presetItem); ok && !m.status.Active {
				return m, m.StartCmd(item.p.ID, 0, "")
			}
		case " ", "p":
			switch m.status.State {
			case "running":
				return m, m.PauseCmd()
			case "paused":
				return m, m.ResumeCmd()
			}
		case "x":
			if m.status.Active {
				return m, m.StopCmd()
			}
		case "r":
			if m.status.Active {
				return m, m.ResetCmd()
			}
		}
		var cmd tea.Cmd
		m.presets, cmd = m.presets.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	listPane := lipgloss.NewStyle().Width(m.width * 3 / 10).Render(m.presets.View())

	var sb strings.Builder
	state := m.status.State
	sb.WriteString(theme.StateStyle(state).Render(strings.ToUpper(state)) + "\n")
	if m.status.Active {
		s := m.status.Session
		sb.WriteString(theme.Title.Render(s.Title) + "  " + theme.Muted.Render(fmt.Sprintf("%s · %d min", s.SessionType, s.DurationMinutes)) + "\n")
		sb.WriteString(theme.Counter.Render(FormatClock(m.status.TimeLeftSeconds)) + "\n")
		sb.WriteString(m.bar.ViewAs(m.status.Progress) + "\n\n")
		sb.WriteString(theme.Muted.Render("space: pause/resume  x: stop  r: reset"))
	} else {
		sb.WriteString(theme.Counter.Render("--:--") + "\n")
		sb.WriteString(theme.Muted.Render("↑/↓ pick a preset, enter to start"))
	}
	if m.note != "" {
		sb.WriteString("\n\n" + theme.Muted.Render(m.note))
	}
	detailW := m.width - m.width*3/10
	detail := theme.Pane.Width(max(10, detailW-4)).Render(sb.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detail)
}

// FormatClock renders seconds as MM:SS, switching to H:MM:SS past an hour.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, rem := seconds/3600, seconds%3600
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, rem/60, rem%60)
	}
	return fmt.Sprintf("%02d:%02d", rem/60, rem%60)
}

// ─── commands ────────────────────────────────────────────────────────────────

func scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m Model) loadPresetsCmd() tea.Cmd {
	return func() tea.Msg {
		presets, err := m.port.Presets(context.Background())
		return PresetsLoadedMsg{Presets: presets, Err: err}
	}
}

// ReloadPresetsCmd re-reads lock state, e.g. after a purchase.
func (m Model) ReloadPresetsCmd() tea.Cmd { return m.loadPresetsCmd() }

func (m Model) RefreshCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Status(context.Background())
		return StatusMsg{Status: status, Err: err}
	}
}

func (m Model) StartCmd(preset string, minutes int, title string) tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Start(context.Background(), preset, minutes, title)
		return StatusMsg{Status: status, Note: "started " + preset, Err: err}
	}
}

func (m Model) PauseCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Pause(context.Background())
		return StatusMsg{Status: status, Note: "paused", Err: err}
	}
}

func (m Model) ResumeCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Resume(context.Background())
		return StatusMsg{Status: status, Note: "resumed", Err: err}
	}
}

func (m Model) ResetCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Reset(context.Background())
		return StatusMsg{Status: status, Note: "reset", Err: err}
	}
}

func (m Model) StopCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := m.port.Stop(ctx); err != nil {
			return StatusMsg{Err: err}
		}
		status, err := m.port.Status(ctx)
		return StatusMsg{Status: status, Note: "stopped", Err: err}
	}
}
