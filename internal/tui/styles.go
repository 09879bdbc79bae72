package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/eugenenazirov/pallet-planner/internal/presentation"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleWarning  = lipgloss.NewStyle().Foreground(colorYellow)
	styleError    = lipgloss.NewStyle().Foreground(colorRed)
)

func tierStyle(t presentation.Tier) lipgloss.Style {
	switch t {
	case presentation.TierHigh:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case presentation.TierMedium:
		return lipgloss.NewStyle().Foreground(colorYellow)
	default:
		return lipgloss.NewStyle().Foreground(colorRed)
	}
}
