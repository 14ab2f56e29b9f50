package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/pkg/logger"
)

//go:embed templates/*
var templateFS embed.FS

// HTMLFormat renders a standalone HTML page.
type HTMLFormat struct {
	logger logger.Logger
	tmpl   *template.Template
	now    func() time.Time
}

// NewHTMLFormat parses the embedded templates.
func NewHTMLFormat(log logger.Logger) (*HTMLFormat, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	h := &HTMLFormat{logger: log, now: time.Now}
	tmpl, err := template.New("report").Funcs(h.templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	h.tmpl = tmpl
	return h, nil
}

// Name returns the format identifier.
func (h *HTMLFormat) Name() string {
	return "html"
}

// Description returns a human-readable description.
func (h *HTMLFormat) Description() string {
	return "Standalone HTML report with remediation cards"
}

// TemplateData holds all data for the report template.
type TemplateData struct {
	GeneratedAt   time.Time
	Run           *models.AnalysisRun
	Findings      []models.Finding
	Duration      time.Duration
	CriticalCount int
	WarningCount  int
	InfoCount     int
}

// Render executes the report template.
func (h *HTMLFormat) Render(w io.Writer, run *models.AnalysisRun) error {
	findings := make([]models.Finding, len(run.Findings))
	copy(findings, run.Findings)
	models.SortBySeverity(findings)

	summary := run.Summary()
	data := &TemplateData{
		GeneratedAt:   h.now(),
		Run:           run,
		Findings:      findings,
		Duration:      run.Duration(),
		CriticalCount: summary.BySeverity[models.SeverityCritical],
		WarningCount:  summary.BySeverity[models.SeverityWarning],
		InfoCount:     summary.BySeverity[models.SeverityInfo],
	}

	if err := h.tmpl.ExecuteTemplate(w, "report.html", data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	h.logger.Debug("Rendered HTML report", "run", run.ID, "findings", len(findings))
	return nil
}

// templateFuncs returns custom template functions.
func (h *HTMLFormat) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"severityClass": func(severity string) string {
			return fmt.Sprintf("severity-%s", models.NormalizeSeverity(severity))
		},
		"severityIcon": func(severity string) string {
			switch severity {
			case models.SeverityCritical:
				return "🔴"
			case models.SeverityWarning:
				return "🟠"
			default:
				return "🔵"
			}
		},
		"severityLabel": SeverityLabel,
		"category":      CategoryLabel,
		"diagnosis":     DiagnosisText,
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
		"formatDuration": func(d time.Duration) string {
			return d.Round(time.Millisecond).String()
		},
		"add": func(a, b int) int {
			return a + b
		},
	}
}
