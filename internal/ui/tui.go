// Package ui provides the rasa terminal dashboard.
package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshsymonds/rasa/internal/analyzer"
	"github.com/joshsymonds/rasa/internal/catalog"
	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/pkg/logger"
)

// Page represents different pages in the TUI.
type Page int

const (
	// LoginPage asks for operator credentials.
	LoginPage Page = iota
	// DashboardPage lists the services.
	DashboardPage
	// IncidentsPage shows the incident list.
	IncidentsPage
	// TranslatorPage is the multi-vendor CLI translator.
	TranslatorPage
	// AnalysisPage runs the log classifier.
	AnalysisPage
)

func (p Page) String() string {
	switch p {
	case LoginPage:
		return "login"
	case DashboardPage:
		return "dashboard"
	case IncidentsPage:
		return "incidents"
	case TranslatorPage:
		return "translator"
	case AnalysisPage:
		return "analysis"
	default:
		return fmt.Sprintf("page(%d)", int(p))
	}
}

// SessionManager is the part of auth.Manager the TUI needs.
type SessionManager interface {
	Login(username, password string) (*models.Session, error)
	Current() (*models.Session, error)
	Logout() error
}

// Analyzer classifies raw log text.
type Analyzer interface {
	Run(ctx context.Context, source, raw string, onStep analyzer.StepFunc) (*models.AnalysisRun, error)
}

// RunSaver records finished analysis runs.
type RunSaver interface {
	SaveRun(ctx context.Context, run *models.AnalysisRun) error
}

// Deps carries everything the pages read from or write to.
type Deps struct {
	Sessions SessionManager
	Catalog  *catalog.Catalog
	Analyzer Analyzer
	// History is optional; runs are not recorded when nil.
	History RunSaver
	// Policy post-processes findings before display.
	Policy func([]models.Finding) []models.Finding
	Logger logger.Logger
	// MarkdownStyle selects the glamour style. Empty means auto-detect.
	MarkdownStyle string
}

// TUI represents the main TUI application.
type TUI struct {
	deps      Deps
	altScreen bool
}

// NewTUI creates a new TUI.
func NewTUI(deps Deps, altScreen bool) *TUI {
	return &TUI{deps: deps, altScreen: altScreen}
}

// Run starts the TUI application and blocks until it exits.
func (t *TUI) Run(ctx context.Context) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(NewTUIModel(t.deps), opts...)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// TUIModel represents the main TUI application state.
type TUIModel struct {
	deps        Deps
	log         logger.Logger
	session     *models.Session
	login       *Login
	dashboard   *Dashboard
	incidents   *Incidents
	translator  *Translator
	analysis    *Analysis
	modal       *Modal
	pageHistory []Page
	currentPage Page
	width       int
	height      int
	quitting    bool
}

// NewTUIModel creates a new TUI application model. A persisted session skips
// the login page.
func NewTUIModel(deps Deps) *TUIModel {
	log := deps.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	m := &TUIModel{
		deps:        deps,
		log:         log.With("component", "ui"),
		pageHistory: []Page{},
		width:       80,
		height:      24,
	}

	if s, err := deps.Sessions.Current(); err == nil {
		m.session = s
		m.currentPage = DashboardPage
		m.dashboard = NewDashboard(s)
	} else {
		m.currentPage = LoginPage
		m.login = NewLogin(deps.Sessions)
	}
	return m
}

// CurrentPage reports the page on screen.
func (m *TUIModel) CurrentPage() Page {
	return m.currentPage
}

// Session returns the logged-in operator, or nil.
func (m *TUIModel) Session() *models.Session {
	return m.session
}

// Init initializes the TUI.
func (m *TUIModel) Init() tea.Cmd {
	if m.currentPage == LoginPage {
		return m.login.Init()
	}
	return nil
}

// Update handles all TUI updates.
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			if m.analysis != nil {
				m.analysis.Cancel()
			}
			return m, tea.Quit
		}
		if m.modal != nil {
			var cmd tea.Cmd
			m.modal, cmd = m.modal.Update(msg)
			return m, cmd
		}
		if msg.String() == "esc" && m.currentPage != LoginPage && len(m.pageHistory) > 0 {
			m.back()
			return m, nil
		}

	case NavigateToPageMsg:
		return m, m.navigate(msg.Page)

	case LoggedInMsg:
		m.session = msg.Session
		m.log.Info("Operator logged in", "username", msg.Session.Username)
		m.pageHistory = []Page{}
		m.login = nil
		m.dashboard = NewDashboard(msg.Session)
		m.dashboard.SetSize(m.width, m.height)
		m.currentPage = DashboardPage
		return m, nil

	case LogoutRequestedMsg:
		m.showModal(NewModal("logout", ModalTypeConfirm, "Log out?", "You will need to sign in again."))
		return m, nil

	case ShowMessageMsg:
		kind := ModalTypeInfo
		if msg.IsError {
			kind = ModalTypeError
		}
		m.showModal(NewModal("message", kind, msg.Title, msg.Message))
		return m, nil

	case ModalClosedMsg:
		m.modal = nil
		if msg.ID == "logout" && msg.Result.Confirmed {
			return m, m.logout()
		}
		return m, nil

	case analysisStepMsg, analysisDoneMsg:
		if m.analysis == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.analysis, cmd = m.analysis.Update(msg)
		return m, cmd
	}

	if m.modal != nil {
		return m, nil
	}
	return m, m.updatePage(msg)
}

func (m *TUIModel) updatePage(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.currentPage {
	case LoginPage:
		m.login, cmd = m.login.Update(msg)
	case DashboardPage:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case IncidentsPage:
		m.incidents, cmd = m.incidents.Update(msg)
	case TranslatorPage:
		m.translator, cmd = m.translator.Update(msg)
	case AnalysisPage:
		m.analysis, cmd = m.analysis.Update(msg)
	}
	return cmd
}

func (m *TUIModel) navigate(page Page) tea.Cmd {
	if page == m.currentPage {
		return nil
	}
	if page != LoginPage && m.session == nil {
		m.log.Warn("Navigation refused without a session", "page", page.String())
		return nil
	}

	var cmd tea.Cmd
	switch page {
	case LoginPage:
		m.login = NewLogin(m.deps.Sessions)
		cmd = m.login.Init()
	case DashboardPage:
		if m.dashboard == nil {
			m.dashboard = NewDashboard(m.session)
		}
	case IncidentsPage:
		if m.incidents == nil {
			m.incidents = NewIncidents(m.deps.Catalog.Incidents())
		}
	case TranslatorPage:
		if m.translator == nil {
			m.translator = NewTranslator(m.deps.Catalog)
		}
		cmd = m.translator.Init()
	case AnalysisPage:
		if m.analysis == nil {
			m.analysis = NewAnalysis(m.deps, m.session)
		}
		cmd = m.analysis.Init()
	default:
		return nil
	}

	m.pageHistory = append(m.pageHistory, m.currentPage)
	m.currentPage = page
	m.resize()
	return cmd
}

func (m *TUIModel) back() {
	if m.currentPage == AnalysisPage && m.analysis != nil {
		m.analysis.Cancel()
	}
	m.currentPage = m.pageHistory[len(m.pageHistory)-1]
	m.pageHistory = m.pageHistory[:len(m.pageHistory)-1]
}

func (m *TUIModel) logout() tea.Cmd {
	if m.analysis != nil {
		m.analysis.Cancel()
	}
	if err := m.deps.Sessions.Logout(); err != nil {
		m.log.Error("Failed to log out", "error", err)
		return func() tea.Msg {
			return ShowMessageMsg{Title: "Logout failed", Message: err.Error(), IsError: true}
		}
	}
	m.log.Info("Operator logged out")

	m.session = nil
	m.dashboard = nil
	m.incidents = nil
	m.translator = nil
	m.analysis = nil
	m.pageHistory = []Page{}
	m.currentPage = LoginPage
	m.login = NewLogin(m.deps.Sessions)
	m.login.SetSize(m.width, m.height)
	return m.login.Init()
}

func (m *TUIModel) showModal(modal *Modal) {
	modal.SetSize(m.width, m.height)
	m.modal = modal
}

func (m *TUIModel) resize() {
	if m.login != nil {
		m.login.SetSize(m.width, m.height)
	}
	if m.dashboard != nil {
		m.dashboard.SetSize(m.width, m.height)
	}
	if m.incidents != nil {
		m.incidents.SetSize(m.width, m.height)
	}
	if m.translator != nil {
		m.translator.SetSize(m.width, m.height)
	}
	if m.analysis != nil {
		m.analysis.SetSize(m.width, m.height)
	}
	if m.modal != nil {
		m.modal.SetSize(m.width, m.height)
	}
}

// View renders the current page.
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}
	if m.modal != nil {
		return m.modal.View()
	}

	switch m.currentPage {
	case LoginPage:
		return m.login.View()
	case DashboardPage:
		return m.dashboard.View()
	case IncidentsPage:
		return m.incidents.View()
	case TranslatorPage:
		return m.translator.View()
	case AnalysisPage:
		return m.analysis.View()
	}

	return "Loading..."
}
