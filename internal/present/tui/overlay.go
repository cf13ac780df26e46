package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

// renderOverlay composes fg on top of base with its top-left corner at (x, y).
func (m model) renderOverlay(base, fg string, x, y int) string {
	termW, termH := m.width, m.height
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	fgW, fgH := lipgloss.Width(fg), lipgloss.Height(fg)
	if x+fgW > termW {
		x = termW - fgW
	}
	if y+fgH > termH {
		y = termH - fgH
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	dimBase := lipgloss.NewStyle().Faint(true).Render(base)

	baseLayer := lipgloss.NewLayer(dimBase).
		Width(termW).
		Height(termH)
	fgLayer := lipgloss.NewLayer(fg).
		Width(fgW).
		Height(fgH).
		X(x).
		Y(y)

	return lipgloss.NewCanvas(baseLayer, fgLayer).Render()
}
