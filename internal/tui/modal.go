package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func modalWidth(width int) int {
	return max(min(width-4, 72), 24)
}

func modalBodyWidth(width int) int {
	// Border plus horizontal padding.
	return modalWidth(width) - 4
}

func renderModalBox(width int, title string, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Width(modalWidth(width) - 2)

	head := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(title)
	return box.Render(strings.Join([]string{head, "", content}, "\n"))
}

func renderInputModal(width int, title string, input string) string {
	field := lipgloss.NewStyle().
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Width(modalBodyWidth(width)).
		Render(input)
	help := styleMuted().Width(modalBodyWidth(width)).Render("enter: save   esc: cancel")
	return renderModalBox(width, title, strings.Join([]string{field, "", help}, "\n"))
}

// placeCenter centers a modal in the area the list would occupy.
func placeCenter(width, height int, s string) string {
	if width <= 0 || height <= 0 {
		return s
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}
