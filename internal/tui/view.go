package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	headerHeight := 1
	footerHeight := 3
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(20, m.width)

	header := titleStyle.Render(" warehouse layout ─ " + m.planID + " ")
	header = lipgloss.NewStyle().Width(contentWidth).Render(header)

	sidebarStyle := boxStyle
	if m.focus == focusCatalog {
		sidebarStyle = sidebarStyle.BorderForeground(accentFg)
	}
	sidebar := sidebarStyle.Width(sidebarWidth - 2).Height(contentHeight - 2).Render(m.catalog.View())

	canvasW := max(10, contentWidth-sidebarWidth-1)
	canvas := lipgloss.NewStyle().Width(canvasW).Height(contentHeight).
		Render(renderCanvas(m.scene, m.cursor, canvasW, contentHeight, m.zoom, m.pan))

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", canvas)

	var cmdLine string
	if m.focus == focusCommand {
		cmdLine = m.input.View()
	} else {
		cmdLine = m.renderHelp()
	}
	footer := lipgloss.JoinVertical(lipgloss.Left, m.renderMetrics(), m.renderStatus(), cmdLine)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderMetrics() string {
	mt := m.plan.Metrics
	parts := []string{
		fmt.Sprintf("area %s sq ft", humanize.CommafWithDigits(mt.TotalArea, 1)),
		fmt.Sprintf("used %.1f%%", mt.Utilization),
		fmt.Sprintf("pallets %s", humanize.Comma(int64(mt.PalletCapacity))),
		fmt.Sprintf("items %d", mt.ItemCount),
		fmt.Sprintf("doors %d", mt.DoorCount),
		fmt.Sprintf("windows %d", mt.WindowCount),
		fmt.Sprintf("walls %s ft", humanize.Ftoa(m.plan.State.WallHeight)),
	}
	line := " " + strings.Join(parts, "  ")
	if n := len(m.plan.StaleOpenings); n > 0 {
		line += noticeStyle.Render(fmt.Sprintf("  %d stale opening(s)", n))
	}
	return line
}

func (m Model) renderStatus() string {
	mode := dimStyle.Render(fmt.Sprintf(" [%s] cursor %.0f,%.0f ", m.plan.Mode, m.cursor.X, m.cursor.Y))
	var status string
	switch {
	case m.statusErr:
		status = errStyle.Render(m.status)
	case m.saving:
		status = dimStyle.Render(m.status)
	default:
		status = okStyle.Render(m.status)
	}
	return mode + status
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"←↑↓→ cursor",
		"tab catalog",
		"enter drop/select",
		"m move",
		"v corner",
		"r rotate",
		"ctrl+d dup",
		"del delete",
		"ctrl+z/y undo/redo",
		": command",
		"ctrl+s save",
		"q quit",
	}
	return dimStyle.Render(" " + strings.Join(keys, "  "))
}
