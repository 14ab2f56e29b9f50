package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldUsername = iota
	fieldPassword
)

// Login is the credential form shown before any other page.
type Login struct {
	sessions SessionManager
	err      string
	inputs   []textinput.Model
	focus    int
	width    int
	height   int
}

// NewLogin creates the login form.
func NewLogin(sessions SessionManager) *Login {
	user := textinput.New()
	user.Placeholder = "Admin"
	user.Prompt = "Username: "
	user.CharLimit = 64
	user.Width = 30
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "••••••••"
	pass.Prompt = "Password: "
	pass.CharLimit = 64
	pass.Width = 30
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return &Login{
		sessions: sessions,
		inputs:   []textinput.Model{user, pass},
		width:    80,
		height:   24,
	}
}

// Init starts the cursor blinking.
func (l *Login) Init() tea.Cmd {
	return textinput.Blink
}

// Error returns the message currently shown under the form.
func (l *Login) Error() string {
	return l.err
}

// Update handles login form updates.
func (l *Login) Update(msg tea.Msg) (*Login, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			return l, l.setFocus(l.focus + 1)
		case "shift+tab", "up":
			return l, l.setFocus(l.focus - 1)
		case "enter":
			if l.focus == fieldUsername {
				return l, l.setFocus(fieldPassword)
			}
			return l, l.submit()
		}
	}

	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	return l, cmd
}

func (l *Login) setFocus(i int) tea.Cmd {
	l.focus = (i + len(l.inputs)) % len(l.inputs)
	for j := range l.inputs {
		l.inputs[j].Blur()
	}
	return l.inputs[l.focus].Focus()
}

func (l *Login) submit() tea.Cmd {
	session, err := l.sessions.Login(l.inputs[fieldUsername].Value(), l.inputs[fieldPassword].Value())
	if err != nil {
		l.err = err.Error()
		l.inputs[fieldPassword].Reset()
		return nil
	}
	l.err = ""
	return func() tea.Msg { return LoggedInMsg{Session: session} }
}

// View renders the login form.
func (l *Login) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🔐 Security Access"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Please enter your RASA credentials."))
	b.WriteString("\n\n")

	for i, in := range l.inputs {
		b.WriteString(in.View())
		if i < len(l.inputs)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")

	if l.err != "" {
		b.WriteString(ErrorStyle.Render(l.err))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("Tab: next field • Enter: sign in • Ctrl+C: quit"))

	form := CardStyle.Render(b.String())
	return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, form)
}

// SetSize updates the form dimensions.
func (l *Login) SetSize(width, height int) {
	l.width = width
	l.height = height
}
