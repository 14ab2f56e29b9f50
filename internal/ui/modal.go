package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ModalType selects the buttons and accent colour of a Modal.
type ModalType int

const (
	// ModalTypeConfirm asks Yes/No and starts on No.
	ModalTypeConfirm ModalType = iota
	// ModalTypeInfo shows a message with an OK button.
	ModalTypeInfo
	// ModalTypeError is ModalTypeInfo drawn in the critical colour.
	ModalTypeError
)

// ModalResult is how the user dismissed a modal.
type ModalResult struct {
	Confirmed bool
	Canceled  bool
}

// ModalClosedMsg is sent when a modal is dismissed. ID names the question
// the modal asked.
type ModalClosedMsg struct {
	ID     string
	Result ModalResult
}

var modalKeys = struct {
	Cancel, Next, Prev, Yes, No, Press key.Binding
}{
	Cancel: key.NewBinding(key.WithKeys("esc")),
	Next:   key.NewBinding(key.WithKeys("tab", "right", "l")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h")),
	Yes:    key.NewBinding(key.WithKeys("y")),
	No:     key.NewBinding(key.WithKeys("n")),
	Press:  key.NewBinding(key.WithKeys("enter", " ")),
}

// Modal is a small dialog centred over the current page.
type Modal struct {
	id      string
	title   string
	message string
	buttons []string
	kind    ModalType
	focus   int
	boxW    int
	screenW int
	screenH int
}

// NewModal builds a dialog. id is echoed back in ModalClosedMsg.
func NewModal(id string, kind ModalType, title, message string) *Modal {
	m := &Modal{
		id:      id,
		kind:    kind,
		title:   title,
		message: message,
		buttons: []string{"OK"},
		boxW:    50,
		screenW: 80,
		screenH: 24,
	}
	if kind == ModalTypeConfirm {
		m.buttons = []string{"Yes", "No"}
		m.focus = 1
	}
	return m
}

// Update moves focus between buttons and closes on a choice.
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		confirm := m.kind == ModalTypeConfirm
		switch {
		case key.Matches(msg, modalKeys.Cancel):
			return m, m.close(ModalResult{Canceled: true})
		case key.Matches(msg, modalKeys.Next):
			m.focus = (m.focus + 1) % len(m.buttons)
		case key.Matches(msg, modalKeys.Prev):
			m.focus = (m.focus + len(m.buttons) - 1) % len(m.buttons)
		case confirm && key.Matches(msg, modalKeys.Yes):
			return m, m.close(ModalResult{Confirmed: true})
		case confirm && key.Matches(msg, modalKeys.No):
			return m, m.close(ModalResult{Canceled: true})
		case key.Matches(msg, modalKeys.Press):
			return m, m.close(m.pressed())
		}
	}
	return m, nil
}

func (m *Modal) pressed() ModalResult {
	if m.kind != ModalTypeConfirm {
		return ModalResult{Confirmed: true}
	}
	yes := m.focus == 0
	return ModalResult{Confirmed: yes, Canceled: !yes}
}

func (m *Modal) close(result ModalResult) tea.Cmd {
	id := m.id
	return func() tea.Msg { return ModalClosedMsg{ID: id, Result: result} }
}

func (m *Modal) accent() lipgloss.Color {
	if m.kind == ModalTypeError {
		return CriticalColor
	}
	return BrandColor
}

// View draws the dialog in the middle of the screen.
func (m *Modal) View() string {
	accent := m.accent()

	parts := []string{lipgloss.NewStyle().Bold(true).Foreground(accent).Render(m.title), ""}
	if m.message != "" {
		parts = append(parts, m.message, "")
	}
	parts = append(parts, m.buttonRow(accent))

	box := lipgloss.NewStyle().
		Width(m.boxW).
		Padding(1, 2).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Render(lipgloss.JoinVertical(lipgloss.Center, parts...))

	return lipgloss.Place(m.screenW, m.screenH, lipgloss.Center, lipgloss.Center, box)
}

func (m *Modal) buttonRow(accent lipgloss.Color) string {
	plain := lipgloss.NewStyle().Padding(0, 2).MarginRight(1)
	focused := plain.Foreground(accent).Bold(true).Underline(true)

	row := make([]string, len(m.buttons))
	for i, label := range m.buttons {
		if i == m.focus {
			row[i] = focused.Render("[" + label + "]")
			continue
		}
		row[i] = plain.Render(" " + label + " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, row...)
}

// SetSize records the screen the modal is centred in. The box is capped
// at 60 columns.
func (m *Modal) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.screenW, m.screenH = width, height
	m.boxW = min(width-4, 60)
}
