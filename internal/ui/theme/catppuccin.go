package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
	Yellow   = lipgloss.Color("#f9e2af")

	// Heat is indexed by heatmap intensity 0..4.
	Heat = [5]lipgloss.Color{Surface0, lipgloss.Color("#40634a"), lipgloss.Color("#5e8c66"), lipgloss.Color("#84b98a"), Green}

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(0, 1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title   = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(Subtext0)
	Hot     = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good    = lipgloss.NewStyle().Foreground(Green)
	Bad     = lipgloss.NewStyle().Foreground(Red)
	Locked  = lipgloss.NewStyle().Foreground(Yellow)
	Counter = lipgloss.NewStyle().Foreground(Lavender).Bold(true).Padding(1, 0)
)

// StateStyle colours a timer state label.
func StateStyle(state string) lipgloss.Style {
	switch state {
	case "running":
		return Good
	case "paused":
		return Locked
	case "completing":
		return Hot
	default:
		return Muted
	}
}
