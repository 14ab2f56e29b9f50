package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshsymonds/rasa/internal/analyzer"
	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/internal/report"
	"github.com/joshsymonds/rasa/pkg/logger"
)

const analysisSource = "tui"

// analysisStepMsg carries one progress step from a running analysis.
type analysisStepMsg struct {
	step models.Step
	gen  int
}

// analysisDoneMsg ends a running analysis.
type analysisDoneMsg struct {
	run *models.AnalysisRun
	err error
	gen int
}

// Analysis is the log analysis page: a paste area, sample loaders and the
// streamed result of the classifier.
type Analysis struct {
	deps     Deps
	log      logger.Logger
	session  *models.Session
	renderer *glamour.TermRenderer
	cancel   context.CancelFunc
	updates  chan tea.Msg
	run      *models.AnalysisRun
	input    textarea.Model
	results  viewport.Model
	err      error
	steps    []models.Step
	gen      int
	width    int
	height   int
	running  bool
}

// NewAnalysis creates the analysis page.
func NewAnalysis(deps Deps, session *models.Session) *Analysis {
	ta := textarea.New()
	ta.Placeholder = "Paste syslog or controller output here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(76)
	ta.SetHeight(8)
	ta.Focus()

	log := deps.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	a := &Analysis{
		deps:    deps,
		log:     log.With("component", "ui.analysis"),
		session: session,
		input:   ta,
		results: viewport.New(76, 10),
		width:   80,
		height:  24,
	}
	a.renderer = a.newRenderer(76)
	a.refresh()
	return a
}

func (a *Analysis) newRenderer(width int) *glamour.TermRenderer {
	style := glamour.WithAutoStyle()
	if a.deps.MarkdownStyle != "" {
		style = glamour.WithStandardStyle(a.deps.MarkdownStyle)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		a.log.Warn("Markdown renderer unavailable", "error", err)
		return nil
	}
	return r
}

// Init starts the cursor blinking.
func (a *Analysis) Init() tea.Cmd {
	return textarea.Blink
}

// Running reports whether an analysis is in flight.
func (a *Analysis) Running() bool {
	return a.running
}

// Steps returns the progress steps received for the current run.
func (a *Analysis) Steps() []models.Step {
	return a.steps
}

// Result returns the last completed run, or nil.
func (a *Analysis) Result() *models.AnalysisRun {
	return a.run
}

// Input returns the text in the paste area.
func (a *Analysis) Input() string {
	return a.input.Value()
}

// Update handles analysis page updates.
func (a *Analysis) Update(msg tea.Msg) (*Analysis, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisStepMsg:
		if msg.gen != a.gen || !a.running {
			return a, nil
		}
		a.steps = append(a.steps, msg.step)
		a.refresh()
		return a, waitForAnalysis(a.updates)

	case analysisDoneMsg:
		if msg.gen != a.gen || !a.running {
			return a, nil
		}
		a.finish()
		a.run, a.err = msg.run, msg.err
		if msg.err != nil {
			a.log.Error("Analysis failed", "error", msg.err)
		}
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+r":
			return a, a.start()
		case "ctrl+o":
			a.loadSample("aireos")
			return a, nil
		case "ctrl+k":
			a.loadSample("catalyst")
			return a, nil
		case "ctrl+l":
			a.clear()
			return a, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			a.results, cmd = a.results.Update(msg)
			return a, cmd
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *Analysis) loadSample(name string) {
	if a.running {
		return
	}
	sample, err := analyzer.Sample(name)
	if err != nil {
		a.err = err
		a.refresh()
		return
	}
	a.input.SetValue(sample)
}

func (a *Analysis) clear() {
	a.Cancel()
	a.input.Reset()
	a.steps = nil
	a.run = nil
	a.err = nil
	a.refresh()
}

func (a *Analysis) start() tea.Cmd {
	if a.running {
		return nil
	}
	raw := a.input.Value()
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	a.gen++
	a.steps = nil
	a.run = nil
	a.err = nil
	a.running = true

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.updates = make(chan tea.Msg, 16)
	go a.analyze(ctx, a.gen, raw, a.updates)

	a.refresh()
	return waitForAnalysis(a.updates)
}

// analyze runs in its own goroutine and reports over updates, which it closes
// when done.
func (a *Analysis) analyze(ctx context.Context, gen int, raw string, updates chan<- tea.Msg) {
	defer close(updates)

	send := func(msg tea.Msg) {
		select {
		case updates <- msg:
		case <-ctx.Done():
		}
	}

	run, err := a.deps.Analyzer.Run(ctx, analysisSource, raw, func(s models.Step) {
		send(analysisStepMsg{gen: gen, step: s})
	})
	if err == nil {
		if a.session != nil {
			run.Operator = a.session.Username
		}
		if a.deps.Policy != nil {
			run.Findings = a.deps.Policy(run.Findings)
		}
		if a.deps.History != nil {
			if saveErr := a.deps.History.SaveRun(ctx, run); saveErr != nil {
				a.log.Warn("Failed to record analysis run", "run", run.ID, "error", saveErr)
			}
		}
	}
	send(analysisDoneMsg{gen: gen, run: run, err: err})
}

func waitForAnalysis(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return nil
		}
		return msg
	}
}

func (a *Analysis) finish() {
	a.running = false
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// Cancel stops a running analysis. Messages still in flight are ignored.
func (a *Analysis) Cancel() {
	if !a.running {
		return
	}
	a.finish()
	a.gen++
	a.log.Debug("Analysis canceled")
	a.refresh()
}

func (a *Analysis) refresh() {
	a.results.SetContent(a.renderResults())
}

func (a *Analysis) renderResults() string {
	var b strings.Builder

	for _, s := range a.steps {
		b.WriteString(SubtitleStyle.Render("› " + s.Message))
		b.WriteString("\n")
	}
	if a.running {
		b.WriteString(SelectedItemStyle.Render("Analyzing..."))
		b.WriteString("\n")
	}

	if a.err != nil {
		b.WriteString(ErrorStyle.Render("Analysis failed: " + a.err.Error()))
		b.WriteString("\n")
	}

	if a.run == nil {
		return b.String()
	}
	if len(a.steps) > 0 {
		b.WriteString("\n")
	}

	if len(a.run.Findings) == 0 {
		b.WriteString(SuccessStyle.Render("No issues detected."))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s\n", TitleStyle.Render(fmt.Sprintf("%d finding(s) on %s", len(a.run.Findings), a.run.Platform)))
	for _, f := range a.run.Findings {
		b.WriteString(a.renderFinding(f))
	}
	return b.String()
}

func (a *Analysis) renderFinding(f models.Finding) string {
	md := report.FindingMarkdown(f)
	if a.renderer == nil {
		return md + "\n"
	}
	out, err := a.renderer.Render(md)
	if err != nil {
		a.log.Warn("Failed to render finding", "title", f.Title, "error", err)
		return md + "\n"
	}
	return out
}

// View renders the page.
func (a *Analysis) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🧠 Log Analysis & Remediation"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.results.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Run: Ctrl+R • AireOS sample: Ctrl+O • Catalyst sample: Ctrl+K • Clear: Ctrl+L • Scroll: PgUp/PgDn • Back: Esc"))

	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

// SetSize updates the page dimensions.
func (a *Analysis) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	prevWidth := a.width
	a.width = width
	a.height = height

	inner := max(width-6, 20)
	a.input.SetWidth(inner)
	a.input.SetHeight(min(8, max(height/4, 3)))
	a.results.Width = inner
	a.results.Height = max(height-a.input.Height()-9, 3)

	if width != prevWidth {
		a.renderer = a.newRenderer(inner)
	}
	a.refresh()
}
