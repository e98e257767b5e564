package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7D56F4")
	mutedColor   = lipgloss.Color("#6C7086")
	errorColor   = lipgloss.Color("#F38BA8")
	userColor    = lipgloss.Color("#89B4FA")
	botColor     = lipgloss.Color("#A6E3A1")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	selectorStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor)

	historyPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), true).
				BorderForeground(mutedColor).
				Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(userColor)
	botLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(botColor)
	subheadStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle     = lipgloss.NewStyle().Foreground(errorColor)
	helpStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	statusStyle    = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
)
