package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors keep the screens readable on both light and dark
// terminal backgrounds.
var (
	deckText   = lipgloss.AdaptiveColor{Light: "#1d2433", Dark: "#f2f5fb"}
	deckMuted  = lipgloss.AdaptiveColor{Light: "#6d7687", Dark: "#9aa4b8"}
	deckBorder = lipgloss.AdaptiveColor{Light: "#6d7687", Dark: "#3d4557"}
	deckAccent = lipgloss.AdaptiveColor{Light: "#3556c3", Dark: "#7aa2ff"}
	deckDanger = lipgloss.AdaptiveColor{Light: "#a32138", Dark: "#ff6b7f"}
	deckGood   = lipgloss.AdaptiveColor{Light: "#1a7f4b", Dark: "#4ddb8f"}
	deckWarn   = lipgloss.AdaptiveColor{Light: "#9a6b00", Dark: "#ffc24d"}
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(deckText)
	mutedStyle  = lipgloss.NewStyle().Foreground(deckMuted)
	accentStyle = lipgloss.NewStyle().Foreground(deckAccent)
	dangerStyle = lipgloss.NewStyle().Foreground(deckDanger)
	goodStyle   = lipgloss.NewStyle().Foreground(deckGood)
	warnStyle   = lipgloss.NewStyle().Foreground(deckWarn)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(deckBorder).
			Padding(0, 1)

	tabStyle       = mutedStyle.Padding(0, 1)
	activeTabStyle = accentStyle.Bold(true).Padding(0, 1)
)

func deckTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(deckBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(deckText)
	s.Selected = s.Selected.
		Foreground(deckText).
		Background(lipgloss.AdaptiveColor{Light: "#dbe4ff", Dark: "#2a3350"}).
		Bold(true)
	s.Cell = s.Cell.Foreground(deckText)
	return s
}

// statusStyle picks the color for an execution status cell.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "success":
		return goodStyle
	case "error":
		return dangerStyle
	case "running", "waiting":
		return warnStyle
	default:
		return mutedStyle
	}
}
