package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshsymonds/rasa/internal/models"
)

type dashboardItem struct {
	title       string
	description string
	shortcut    string
	page        Page
	logout      bool
}

// Dashboard is the service menu shown after login.
type Dashboard struct {
	session *models.Session
	items   []dashboardItem
	cursor  int
	width   int
	height  int
}

// NewDashboard creates the dashboard for the logged-in operator.
func NewDashboard(session *models.Session) *Dashboard {
	return &Dashboard{
		session: session,
		items: []dashboardItem{
			{
				title:       "Log Analysis & Remediation",
				description: "AI-powered log parser for Cisco, Aruba, and Ruckus. Identifies root causes and suggests fixes.",
				shortcut:    "1",
				page:        AnalysisPage,
			},
			{
				title:       "Recent Incidents",
				description: "View live network alerts, active remediations, and historical issue logs.",
				shortcut:    "2",
				page:        IncidentsPage,
			},
			{
				title:       "CLI Translator",
				description: "Map configuration commands across different network vendors instantly.",
				shortcut:    "3",
				page:        TranslatorPage,
			},
			{
				title:    "Logout",
				shortcut: "l",
				logout:   true,
			},
		},
		width:  80,
		height: 24,
	}
}

// Init initializes the dashboard.
func (d *Dashboard) Init() tea.Cmd {
	return nil
}

// Update handles dashboard updates.
func (d *Dashboard) Update(msg tea.Msg) (*Dashboard, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		// Vim-style navigation
		case "k", "up":
			if d.cursor > 0 {
				d.cursor--
			}
		case "j", "down":
			if d.cursor < len(d.items)-1 {
				d.cursor++
			}
		case "g":
			d.cursor = 0
		case "G":
			d.cursor = len(d.items) - 1
		case "enter", " ":
			return d, d.handleSelection()
		case "1", "2", "3", "l":
			for i, it := range d.items {
				if it.shortcut == msg.String() {
					d.cursor = i
					return d, d.handleSelection()
				}
			}
		case "q":
			return d, tea.Quit
		}
	}
	return d, nil
}

func (d *Dashboard) handleSelection() tea.Cmd {
	it := d.items[d.cursor]
	if it.logout {
		return func() tea.Msg { return LogoutRequestedMsg{} }
	}
	return navigate(it.page)
}

// View renders the dashboard.
func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("📡 RASA Network Operations"))
	b.WriteString("\n")
	if d.session != nil {
		welcome := fmt.Sprintf("Welcome back, %s (%s)", d.session.Username, d.session.Role)
		b.WriteString(SubtitleStyle.Render(welcome))
	}
	b.WriteString("\n\n")

	cardWidth := min(max(d.width-8, 30), 72)
	for i, it := range d.items {
		if it.logout {
			style := NormalItemStyle
			cursor := "  "
			if i == d.cursor {
				style = SelectedItemStyle
				cursor = "▸ "
			}
			b.WriteString(style.Render(fmt.Sprintf("%s[%s] %s", cursor, it.shortcut, it.title)))
			b.WriteString("\n")
			continue
		}

		style := CardStyle
		title := NormalItemStyle.Bold(true).Render(fmt.Sprintf("[%s] %s", it.shortcut, it.title))
		if i == d.cursor {
			style = SelectedCardStyle
			title = SelectedItemStyle.Render(fmt.Sprintf("[%s] %s", it.shortcut, it.title))
		}
		card := title + "\n" + SubtitleStyle.Render(it.description)
		b.WriteString(style.Width(cardWidth).Render(card))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("Navigate: ↑/↓ or j/k • Select: Enter • Quick: 1/2/3/l • Quit: q"))

	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, b.String())
}

// SetSize updates the dashboard dimensions.
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}
