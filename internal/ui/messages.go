package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshsymonds/rasa/internal/models"
)

// NavigateToPageMsg is sent to navigate to a different page.
type NavigateToPageMsg struct {
	Page Page
}

// LoggedInMsg is sent after a successful login.
type LoggedInMsg struct {
	Session *models.Session
}

// LogoutRequestedMsg asks the root model to confirm and end the session.
type LogoutRequestedMsg struct{}

// ShowMessageMsg displays a message to the user.
type ShowMessageMsg struct {
	Title   string
	Message string
	IsError bool
}

func navigate(page Page) tea.Cmd {
	return func() tea.Msg {
		return NavigateToPageMsg{Page: page}
	}
}
