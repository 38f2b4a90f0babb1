package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, https://catppuccin.com/palette
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	focusedBoxStyle = boxStyle.BorderForeground(colorFocus)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	navStyle       = lipgloss.NewStyle().Foreground(colorSubtext1)
	navActiveStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	navCursorStyle = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	navReadStyle   = lipgloss.NewStyle().Foreground(colorInfo)
	navLogoutStyle = lipgloss.NewStyle().Foreground(colorWarning)

	labelStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	outputStyle  = lipgloss.NewStyle().Foreground(colorText)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	hintStyle    = lipgloss.NewStyle().Foreground(colorOverlay0)
	sepStyle     = lipgloss.NewStyle().Foreground(colorSurface2)
	selectedBg   = lipgloss.NewStyle().Background(colorSurface0)
)
