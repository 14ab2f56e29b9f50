package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshsymonds/rasa/internal/catalog"
	"github.com/joshsymonds/rasa/internal/models"
)

var translatorHeaders = []string{"Description", "Cisco (WLC)", "Aruba (AOS)", "Ruckus (SZ)"}

// Translator filters the command table as the operator types.
type Translator struct {
	catalog *catalog.Catalog
	search  textinput.Model
	rows    []models.CommandMapping
	width   int
	height  int
}

// NewTranslator creates the translator page.
func NewTranslator(c *catalog.Catalog) *Translator {
	search := textinput.New()
	search.Placeholder = "Search commands (e.g. 'client', 'ap', 'wlan')"
	search.Prompt = "🔎 "
	search.CharLimit = 80
	search.Width = 50
	search.Focus()

	t := &Translator{
		catalog: c,
		search:  search,
		width:   80,
		height:  24,
	}
	t.filter()
	return t
}

// Init starts the cursor blinking.
func (t *Translator) Init() tea.Cmd {
	return textinput.Blink
}

// Rows returns the currently visible mappings.
func (t *Translator) Rows() []models.CommandMapping {
	return t.rows
}

// Update handles translator updates.
func (t *Translator) Update(msg tea.Msg) (*Translator, tea.Cmd) {
	var cmd tea.Cmd
	t.search, cmd = t.search.Update(msg)
	t.filter()
	return t, cmd
}

func (t *Translator) filter() {
	// An empty vendor never fails.
	rows, _ := t.catalog.Search(t.search.Value(), "")
	t.rows = rows
}

// View renders the search box and result table.
func (t *Translator) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🔁 CLI Multi-Vendor Translator"))
	b.WriteString("\n")
	b.WriteString(t.search.View())
	b.WriteString("\n\n")

	if len(t.rows) == 0 {
		b.WriteString(SubtitleStyle.Render("No results found"))
		b.WriteString("\n")
	} else {
		b.WriteString(t.renderTable())
	}

	b.WriteString(HelpStyle.Render("Type to filter • Back: Esc"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (t *Translator) renderTable() string {
	col := max((t.width-8)/len(translatorHeaders), 16)
	cell := lipgloss.NewStyle().Width(col).PaddingRight(1)
	header := cell.Bold(true).Foreground(BrandColor)
	code := cell.Foreground(lipgloss.Color("#A7F3D0"))

	var b strings.Builder
	heads := make([]string, len(translatorHeaders))
	for i, h := range translatorHeaders {
		heads[i] = header.Render(h)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, heads...))
	b.WriteString("\n")

	for _, row := range t.rows {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			cell.Render(row.Description),
			code.Render(row.Cisco),
			code.Render(row.Aruba),
			code.Render(row.Ruckus),
		))
		b.WriteString("\n")
	}
	return b.String()
}

// SetSize updates the page dimensions.
func (t *Translator) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.search.Width = min(max(width-10, 20), 60)
}
