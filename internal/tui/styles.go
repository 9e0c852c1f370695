package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#2563EB")
	warnFg    = lipgloss.Color("#F59E0B")
	errFg     = lipgloss.Color("#DC2626")
	okFg      = lipgloss.Color("#16A34A")
	borderCol = lipgloss.Color("#243141")

	appStyle    = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(baseDimFg)
	noticeStyle = lipgloss.NewStyle().Foreground(warnFg).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(errFg)
	okStyle     = lipgloss.NewStyle().Foreground(okFg)
	cursorStyle = lipgloss.NewStyle().Foreground(warnFg).Bold(true)
)
