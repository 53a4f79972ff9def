package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/foxxcyber/kargolojik/internal/brand"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(brand.DefaultColor))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e74c3c")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff"))

	labelStyle = lipgloss.NewStyle().
			Width(12).
			Foreground(lipgloss.Color("245"))
)

// badge renders a company name on its brand colour
func badge(company string) string {
	label := company
	if label == "" {
		label = "Kargo Şubesi"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(brand.Color(company))).
		Foreground(lipgloss.Color("#ffffff")).
		Padding(0, 1).
		Render(label)
}

func joinDot(parts []string) string {
	return strings.Join(parts, " • ")
}
