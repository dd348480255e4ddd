package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	insightdto "timebox/internal/modules/insight/dto"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the insight use-case.
type Port interface {
	Generate(ctx context.Context) (insightdto.ReportOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// GeneratedMsg is sent when a report finishes generating.
type GeneratedMsg struct {
	Report insightdto.ReportOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type insightItem struct{ in insightdto.InsightOutput }

func (i insightItem) Title() string { return i.in.Title }
func (i insightItem) Description() string {
	return fmt.Sprintf("[%s] %s · %.0f%%", i.in.Type, i.in.Source, i.in.Confidence*100)
}
func (i insightItem) FilterValue() string { return i.in.Title + " " + i.in.Category }

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the self-contained Bubble Tea model for the Insights tab.
type Model struct {
	port    Port
	items   list.Model
	detail  viewport.Model
	spinner spinner.Model
	report  insightdto.ReportOutput
	loaded  bool
	loading bool
	locked  bool
	err     error
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
	l.Title = "Insights"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, items: l, detail: vp, spinner: sp}
}

// Filtering reports whether the insight list's search filter is active.
func (m Model) Filtering() bool {
	return m.items.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd { return nil }

// Generate starts a fresh report; used on first visit and from the palette.
func (m *Model) Generate() tea.Cmd {
	if m.port == nil {
		return nil
	}
	m.loading = true
	return tea.Batch(m.generateCmd(), m.spinner.Tick)
}

// Loaded reports whether a report has been requested at least once.
func (m Model) Loaded() bool { return m.loaded || m.loading }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case GeneratedMsg:
		m.loading = false
		m.loaded = true
		m.err = msg.Err
		m.locked = errors.Is(msg.Err, apperrors.ErrFeatureLocked)
		if msg.Err != nil {
			return m, nil
		}
		m.report = msg.Report
		items := make([]list.Item, len(msg.Report.Insights))
		for i, in := range msg.Report.Insights {
			items[i] = insightItem{in: in}
		}
		cmds = append(cmds, m.items.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if msg.String() == "g" && !m.Filtering() {
			return m, m.Generate()
		}
		var cmd tea.Cmd
		m.items, cmd = m.items.Update(msg)
		cmds = append(cmds, cmd)
		m.detail.SetContent(m.renderDetail())
		m.detail.GotoTop()

	default:
		// list filtering runs on its own messages.
		var cmd tea.Cmd
		m.items, cmd = m.items.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Analysing sessions…")
	}
	switch {
	case m.locked:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Locked.Render("AI insights are a Pro feature.")+"\n"+theme.Muted.Render("Run :pro:purchase to unlock."))
	case m.err != nil:
		return theme.Bad.Render("insights: " + m.err.Error())
	case !m.loaded:
		return theme.Muted.Render("press g to generate insights")
	}

	listW := m.width * 4 / 10
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.items.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, m.detail.View())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	m.items.SetSize(m.width*4/10, m.height-1)
	m.detail.Width = m.width - m.width*4/10 - 2
	m.detail.Height = m.height - 2
}

func (m Model) renderDetail() string {
	var sb strings.Builder
	metrics := m.report.Metrics
	sb.WriteString(theme.Title.Render("Metrics") + "\n")
	fmt.Fprintf(&sb, "focus %d · completion %d%% · avg %d min · trend %s\n",
		metrics.FocusScore, metrics.CompletionRate, metrics.AverageSessionLength, metrics.WeeklyTrend)
	if item, ok := m.items.SelectedItem().(insightItem); ok {
		sb.WriteString("\n" + theme.Hot.Render(item.in.Title) + "\n")
		sb.WriteString(item.in.Message + "\n")
		sb.WriteString(theme.Muted.Render(item.in.Category) + "\n")
	}
	if len(m.report.Recommendations) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Try this") + "\n")
		for _, r := range m.report.Recommendations {
			sb.WriteString("• " + r + "\n")
		}
	}
	if len(m.report.Failed) > 0 {
		sb.WriteString("\n" + theme.Bad.Render("skipped providers: "+strings.Join(m.report.Failed, ", ")))
	}
	return sb.String()
}

func (m Model) generateCmd() tea.Cmd {
	return func() tea.Msg {
		report, err := m.port.Generate(context.Background())
		return GeneratedMsg{Report: report, Err: err}
	}
}
