package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#0a66c2")).
			Padding(0, 1)

	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#aaaaaa"})

	counterWarnStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f23a74")).
				Bold(true)

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#f56a96", Dark: "#f23a74"}).
				Render

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Render
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)
