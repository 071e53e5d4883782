package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset used here.
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	styleOn      = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	styleOff     = lipgloss.NewStyle().Foreground(colorOverlay1)
	stylePending = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleHelp    = lipgloss.NewStyle().Foreground(colorOverlay1)
	stylePrompt  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorYellow).
			Foreground(colorText).
			Padding(0, 1)
	styleFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(1, 2)
)
