package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/starpilot/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleSlotLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleLogLine = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleStartLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))
)

// slotColors maps the bus palette names onto terminal colors.
var slotColors = map[string]lipgloss.Style{
	"green":  lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
	"orange": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	"red":    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	"grey":   lipgloss.NewStyle().Foreground(lipgloss.Color("247")),
}

// levelColors styles status-event log lines by severity.
var levelColors = map[types.Level]lipgloss.Style{
	types.LevelOK:    lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
	types.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	types.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	types.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	types.LevelBusy:  lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
}

func slotStyle(colorName string) lipgloss.Style {
	if s, ok := slotColors[colorName]; ok {
		return s
	}
	return slotColors["grey"]
}

func levelStyle(l types.Level) lipgloss.Style {
	if s, ok := levelColors[l]; ok {
		return s
	}
	return levelColors[types.LevelInfo]
}
