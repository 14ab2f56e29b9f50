package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshsymonds/rasa/internal/models"
)

// Incidents lists the incident table. At most one incident is expanded.
type Incidents struct {
	incidents []models.Incident
	cursor    int
	expanded  int
	width     int
	height    int
}

// NewIncidents creates the incidents page.
func NewIncidents(incidents []models.Incident) *Incidents {
	return &Incidents{
		incidents: incidents,
		expanded:  -1,
		width:     80,
		height:    24,
	}
}

// Init initializes the page.
func (p *Incidents) Init() tea.Cmd {
	return nil
}

// Expanded returns the id of the expanded incident, or "".
func (p *Incidents) Expanded() string {
	if p.expanded < 0 || p.expanded >= len(p.incidents) {
		return ""
	}
	return p.incidents[p.expanded].ID
}

// Update handles incidents page updates.
func (p *Incidents) Update(msg tea.Msg) (*Incidents, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "k", "up":
			if p.cursor > 0 {
				p.cursor--
			}
		case "j", "down":
			if p.cursor < len(p.incidents)-1 {
				p.cursor++
			}
		case "enter", " ":
			p.toggle(p.cursor)
		}
	}
	return p, nil
}

func (p *Incidents) toggle(i int) {
	if i >= len(p.incidents) {
		return
	}
	if p.expanded == i {
		p.expanded = -1
		return
	}
	p.expanded = i
}

// View renders the incident list.
func (p *Incidents) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🚨 Recent Incidents"))
	b.WriteString("\n")

	if len(p.incidents) == 0 {
		b.WriteString(SubtitleStyle.Render("No incidents recorded."))
		b.WriteString("\n")
	}

	for i, inc := range p.incidents {
		cursor := "  "
		title := NormalItemStyle.Render(inc.Title)
		if i == p.cursor {
			cursor = "▸ "
			title = SelectedItemStyle.Render(inc.Title)
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, SeverityBadge(inc.Severity), title)
		meta := fmt.Sprintf("    %s • %s", inc.Location, inc.Timestamp)
		b.WriteString(SubtitleStyle.Render(meta))
		b.WriteString("\n")

		if i == p.expanded {
			b.WriteString(p.renderDetail(inc))
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("Navigate: ↑/↓ • Expand: Enter • Back: Esc"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (p *Incidents) renderDetail(inc models.Incident) string {
	var b strings.Builder
	label := lipgloss.NewStyle().Bold(true).Foreground(SeverityColor(inc.Severity))

	b.WriteString(label.Render("Evidence"))
	b.WriteString("\n")
	b.WriteString(inc.Evidence)
	b.WriteString("\n\n")
	b.WriteString(label.Render("Device Impacted"))
	b.WriteString("\n")
	b.WriteString(inc.Device)
	b.WriteString("\n\n")
	b.WriteString(label.Render("Remediation"))
	for i, step := range inc.Remediation {
		fmt.Fprintf(&b, "\n%d. %s", i+1, step)
	}

	width := min(max(p.width-10, 30), 90)
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(SeverityColor(inc.Severity)).
		PaddingLeft(2).
		MarginLeft(4).
		Width(width).
		Render(b.String()) + "\n"
}

// SetSize updates the page dimensions.
func (p *Incidents) SetSize(width, height int) {
	p.width = width
	p.height = height
}
