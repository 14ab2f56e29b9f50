package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/internal/report"
)

// Style definitions.
var (
	BrandColor    = lipgloss.Color("#F97316")
	CriticalColor = lipgloss.Color("#DC2626")
	WarningColor  = lipgloss.Color("#EA580C")
	InfoColor     = lipgloss.Color("#2563EB")
	MutedColor    = lipgloss.Color("#808080")
	SuccessColor  = lipgloss.Color("#10B981")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BrandColor).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(BrandColor).
				Bold(true)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			MarginTop(1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(CriticalColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(1, 2)

	SelectedCardStyle = CardStyle.
				BorderForeground(BrandColor)
)

// SeverityColor maps a severity onto its palette colour.
func SeverityColor(severity string) lipgloss.Color {
	switch models.NormalizeSeverity(severity) {
	case models.SeverityCritical:
		return CriticalColor
	case models.SeverityWarning:
		return WarningColor
	default:
		return InfoColor
	}
}

// SeverityBadge renders an upper-case severity pill.
func SeverityBadge(severity string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(SeverityColor(severity)).
		Padding(0, 1).
		Render(report.SeverityLabel(severity))
}
