package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	bodyStyle = lipgloss.NewStyle().
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	helpBarStyle = lipgloss.NewStyle().
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 2)
)

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

// renderSwatch paints label on the mode's background color, picking black or white
// text by lightness.
func renderSwatch(hex, label string) string {
	bg, fg := swatchColors(hex)
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 2).
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).
		Render(label)
}

func swatchColors(hex string) (bg, fg string) {
	if len(hex) > 0 && hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#808080", "#000000"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return c.Hex(), "#000000"
	}
	return c.Hex(), "#ffffff"
}

func renderStatusBar(connected bool, mode string, width int) string {
	var status string
	if connected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		status = dot + " winvelocity running"
		if mode != "" {
			status += "  mode:" + mode
		}
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " winvelocity not running"
	}

	return lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1).
		Render(status)
}
