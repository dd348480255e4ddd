package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	premiumdto "timebox/internal/modules/premium/dto"
	timerdto "timebox/internal/modules/timer/dto"
	"timebox/internal/ui/components"
	"timebox/internal/ui/theme"
	insightsview "timebox/internal/ui/views/insights"
	statsview "timebox/internal/ui/views/stats"
	timerview "timebox/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type timerPort interface {
	Start(ctx context.Context, sessionType string, minutes int, title string) (timerdto.StatusOutput, error)
	Pause(ctx context.Context) (timerdto.StatusOutput, error)
	Resume(ctx context.Context) (timerdto.StatusOutput, error)
	Stop(ctx context.Context) (timerdto.SessionOutput, error)
	Reset(ctx context.Context) (timerdto.StatusOutput, error)
	Status(ctx context.Context) (timerdto.StatusOutput, error)
	Events() <-chan timerdto.EventOutput
}

type premiumPort interface {
	Presets(ctx context.Context) ([]premiumdto.PresetOutput, error)
	Purchase(ctx context.Context, productID string) (premiumdto.PurchaseOutput, error)
	Restore(ctx context.Context) (premiumdto.PurchaseOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabStats
	tabInsights
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Stats", "Insights"}

var paletteHints = []string{
	"start <preset> [minutes] [title]",
	"pause",
	"resume",
	"stop",
	"reset",
	"stats",
	"insights",
	"pro:purchase",
	"pro:restore",
}

// ─── async messages ──────────────────────────────────────────────────────────

type timerEventMsg struct {
	event timerdto.EventOutput
	ok    bool
}

type noteMsg struct {
	text string
	ok   bool
}

type purchaseMsg struct {
	out premiumdto.PurchaseOutput
	err error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Pause   key.Binding
	Stop    key.Binding
	Reset   key.Binding
	Insight key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start preset")),
		Pause:   key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause/resume")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Insight: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "regenerate insights")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Stop, k.Reset},
		{k.Tab, k.Insight},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette, and forwards timer events to the sub-views.
type Model struct {
	timer   timerPort
	premium premiumPort
	notes   <-chan string

	timerView    timerview.Model
	statsView    statsview.Model
	insightsView insightsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// NewModel wires the tabs. notes may be nil when nothing produces notifications.
func NewModel(timer timerPort, premium premiumPort, stats statsview.Port, insights insightsview.Port, notes <-chan string) Model {
	return Model{
		timer:        timer,
		premium:      premium,
		notes:        notes,
		timerView:    timerview.New(timerViewBridge{timer: timer, premium: premium}),
		statsView:    statsview.New(stats),
		insightsView: insightsview.New(insights),
		activeTab:    tabTimer,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(paletteHints...),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.statsView.Init(),
		m.waitForEvent(),
		m.waitForNote(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case timerEventMsg:
		if !msg.ok {
			return m, nil
		}
		m.status = describeEvent(msg.event)
		cmds = append(cmds, m.waitForEvent(), m.timerView.RefreshCmd())
		switch msg.event.Kind {
		case "completed", "stopped", "recovered":
			cmds = append(cmds, m.statsView.Reload())
		}
		return m, tea.Batch(cmds...)

	case noteMsg:
		if !msg.ok {
			return m, nil
		}
		m.status = msg.text
		return m, m.waitForNote()

	case purchaseMsg:
		switch {
		case msg.err != nil:
			m.status = "purchase failed: " + msg.err.Error()
		case !msg.out.Success:
			m.status = "purchase cancelled"
		default:
			m.status = "Pro unlocked"
			cmds = append(cmds, m.timerView.ReloadPresetsCmd(), m.statsView.Reload())
		}
		return m, tea.Batch(cmds...)

	case timerview.StatusMsg, timerview.PresetsLoadedMsg:
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		return m, cmd

	case statsview.LoadedMsg:
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd

	case insightsview.GeneratedMsg:
		var cmd tea.Cmd
		m.insightsView, cmd = m.insightsView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabInsights && m.insightsView.Filtering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			return m.switchTab((m.activeTab + 1) % tabCount)
		case "shift+tab":
			return m.switchTab((m.activeTab + tabCount - 1) % tabCount)
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	// Ticks, spinners and remaining keys go to every view that may be waiting on
	// them; only the active tab receives keys.
	var cmd tea.Cmd
	if _, isKey := msg.(tea.KeyMsg); isKey {
		switch m.activeTab {
		case tabTimer:
			m.timerView, cmd = m.timerView.Update(msg)
		case tabStats:
			m.statsView, cmd = m.statsView.Update(msg)
		case tabInsights:
			m.insightsView, cmd = m.insightsView.Update(msg)
		}
		return m, cmd
	}
	m.timerView, cmd = m.timerView.Update(msg)
	cmds = append(cmds, cmd)
	m.statsView, cmd = m.statsView.Update(msg)
	cmds = append(cmds, cmd)
	m.insightsView, cmd = m.insightsView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = lipgloss.NewStyle().Height(contentH).Render(m.activeView())
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabStats:
		return m.statsView.View()
	case tabInsights:
		return m.insightsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "timebox  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.timerView.Active() {
		state := m.timerView.State()
		left = theme.StateStyle(state).Render("● "+state) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "start":
		if len(parts) < 2 {
			m.status = "usage: start <preset> [minutes] [title]"
			return m, nil
		}
		minutes := 0
		rest := parts[2:]
		if len(rest) > 0 {
			if n, err := strconv.Atoi(rest[0]); err == nil {
				minutes = n
				rest = rest[1:]
			}
		}
		m.activeTab = tabTimer
		return m, m.timerView.StartCmd(parts[1], minutes, strings.Join(rest, " "))
	case "pause":
		return m, m.timerView.PauseCmd()
	case "resume":
		return m, m.timerView.ResumeCmd()
	case "stop":
		return m, m.timerView.StopCmd()
	case "reset":
		return m, m.timerView.ResetCmd()
	case "stats":
		m.activeTab = tabStats
		return m, m.statsView.Reload()
	case "insights":
		m.activeTab = tabInsights
		return m, m.insightsView.Generate()
	case "pro:purchase":
		return m, m.purchaseCmd(false)
	case "pro:restore":
		return m, m.purchaseCmd(true)
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) switchTab(tab tabID) (tea.Model, tea.Cmd) {
	m.activeTab = tab
	if tab == tabInsights && !m.insightsView.Loaded() {
		return m, m.insightsView.Generate()
	}
	return m, nil
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
	m.insightsView, _ = m.insightsView.Update(sz)
}

func describeEvent(e timerdto.EventOutput) string {
	switch e.Kind {
	case "started":
		return "started " + e.Session.Title
	case "completed":
		return "completed " + e.Session.Title
	case "stopped":
		return "stopped " + e.Session.Title
	case "recovered":
		return "recovered " + e.Session.Title
	case "recovery_discarded":
		return "discarded stale session: " + e.Reason
	case "persistence_failed":
		return "could not save session: " + e.Reason
	}
	return e.Kind
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) waitForEvent() tea.Cmd {
	if m.timer == nil {
		return nil
	}
	events := m.timer.Events()
	return func() tea.Msg {
		event, ok := <-events
		return timerEventMsg{event: event, ok: ok}
	}
}

func (m Model) waitForNote() tea.Cmd {
	if m.notes == nil {
		return nil
	}
	notes := m.notes
	return func() tea.Msg {
		text, ok := <-notes
		return noteMsg{text: text, ok: ok}
	}
}

func (m Model) purchaseCmd(restore bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if restore {
			out, err := m.premium.Restore(ctx)
			return purchaseMsg{out: out, err: err}
		}
		out, err := m.premium.Purchase(ctx, "")
		return purchaseMsg{out: out, err: err}
	}
}

// ─── port bridges ────────────────────────────────────────────────────────────

type timerViewBridge struct {
	timer   timerPort
	premium premiumPort
}

func (b timerViewBridge) Start(ctx context.Context, sessionType string, minutes int, title string) (timerdto.StatusOutput, error) {
	return b.timer.Start(ctx, sessionType, minutes, title)
}
func (b timerViewBridge) Pause(ctx context.Context) (timerdto.StatusOutput, error) {
	return b.timer.Pause(ctx)
}
func (b timerViewBridge) Resume(ctx context.Context) (timerdto.StatusOutput, error) {
	return b.timer.Resume(ctx)
}
func (b timerViewBridge) Stop(ctx context.Context) (timerdto.SessionOutput, error) {
	return b.timer.Stop(ctx)
}
func (b timerViewBridge) Reset(ctx context.Context) (timerdto.StatusOutput, error) {
	return b.timer.Reset(ctx)
}
func (b timerViewBridge) Status(ctx context.Context) (timerdto.StatusOutput, error) {
	return b.timer.Status(ctx)
}
func (b timerViewBridge) Presets(ctx context.Context) ([]premiumdto.PresetOutput, error) {
	return b.premium.Presets(ctx)
}
