package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/joshsymonds/rasa/internal/models"
)

// TextFormat prints findings as terminal cards with coloured severity badges.
type TextFormat struct {
	badges  map[string]*color.Color
	heading *color.Color
	muted   *color.Color
	tip     *color.Color
}

// NewTextFormat creates a text format. Colour follows fatih/color's
// terminal detection.
func NewTextFormat() *TextFormat {
	return &TextFormat{
		badges: map[string]*color.Color{
			models.SeverityCritical: color.New(color.FgWhite, color.BgRed, color.Bold),
			models.SeverityWarning:  color.New(color.FgBlack, color.BgYellow, color.Bold),
			models.SeverityInfo:     color.New(color.FgWhite, color.BgBlue, color.Bold),
		},
		heading: color.New(color.Bold),
		muted:   color.New(color.Faint),
		tip:     color.New(color.FgGreen),
	}
}

// WithoutColor returns the format with all colour disabled.
func (t *TextFormat) WithoutColor() *TextFormat {
	for _, c := range t.badges {
		c.DisableColor()
	}
	t.heading.DisableColor()
	t.muted.DisableColor()
	t.tip.DisableColor()
	return t
}

// Name returns the format identifier.
func (t *TextFormat) Name() string {
	return "text"
}

// Description returns a human-readable description.
func (t *TextFormat) Description() string {
	return "Coloured terminal output, one card per finding"
}

// Render writes the run header followed by every finding.
func (t *TextFormat) Render(w io.Writer, run *models.AnalysisRun) error {
	var b strings.Builder

	t.heading.Fprintf(&b, "RASA analysis %s\n", shortID(run.ID))
	t.muted.Fprintf(&b, "source: %s  platform: %s  lines: %d  duration: %s\n",
		valueOr(run.Source, "-"), run.Platform, run.LineCount, run.Duration().Round(time.Millisecond))

	if len(run.Findings) == 0 {
		b.WriteString("\nNo issues detected.\n")
	}

	for i := range run.Findings {
		b.WriteString("\n")
		t.writeFinding(&b, run.Findings[i])
	}

	if len(run.Findings) > 0 {
		summary := run.Summary()
		fmt.Fprintf(&b, "\n%d finding(s): %d critical, %d warning, %d info\n",
			summary.TotalFindings,
			summary.BySeverity[models.SeverityCritical],
			summary.BySeverity[models.SeverityWarning],
			summary.BySeverity[models.SeverityInfo])
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderFinding writes a single finding card.
func (t *TextFormat) RenderFinding(w io.Writer, f models.Finding) error {
	var b strings.Builder
	t.writeFinding(&b, f)
	_, err := io.WriteString(w, b.String())
	return err
}

func (t *TextFormat) writeFinding(b *strings.Builder, f models.Finding) {
	badge, ok := t.badges[f.Severity]
	if !ok {
		badge = t.badges[models.SeverityInfo]
	}

	badge.Fprintf(b, " %s ", SeverityLabel(f.Severity))
	fmt.Fprintf(b, " %s", CategoryLabel(f.Category))
	if f.Confidence > 0 {
		t.muted.Fprintf(b, "  confidence %s %d%%", ConfidenceBar(f.Confidence, 10), f.Confidence)
	}
	b.WriteString("\n")

	t.heading.Fprintf(b, "%s\n", f.Title)
	fmt.Fprintf(b, "  Diagnosis: %q\n", DiagnosisText(f))
	if f.Evidence != "" {
		t.muted.Fprintf(b, "  Evidence: %s\n", f.Evidence)
	}

	if len(f.Remediation) > 0 {
		b.WriteString("  Remediation:\n")
		for i, step := range f.Remediation {
			fmt.Fprintf(b, "    %d. %s\n", i+1, step)
		}
	}

	if f.ProTip != "" {
		t.tip.Fprintf(b, "  Pro tip: %s\n", f.ProTip)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
