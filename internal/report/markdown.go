package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshsymonds/rasa/internal/models"
)

type markdownFormat struct{}

func (f *markdownFormat) Name() string {
	return "markdown"
}

func (f *markdownFormat) Description() string {
	return "Markdown remediation cards"
}

func (f *markdownFormat) Render(w io.Writer, run *models.AnalysisRun) error {
	var b strings.Builder

	b.WriteString("# RASA Log Analysis\n\n")
	fmt.Fprintf(&b, "- **Platform:** %s\n", run.Platform)
	if run.Source != "" {
		fmt.Fprintf(&b, "- **Source:** `%s`\n", run.Source)
	}
	fmt.Fprintf(&b, "- **Lines analysed:** %d\n", run.LineCount)
	if !run.StartedAt.IsZero() {
		fmt.Fprintf(&b, "- **Started:** %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	}
	b.WriteString("\n")

	if len(run.Findings) == 0 {
		b.WriteString("_No issues detected._\n")
	}
	for _, finding := range run.Findings {
		b.WriteString(FindingMarkdown(finding))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FindingMarkdown renders one finding as a markdown card.
func FindingMarkdown(f models.Finding) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", f.Title)
	fmt.Fprintf(&b, "**%s** · %s", SeverityLabel(f.Severity), CategoryLabel(f.Category))
	if f.Confidence > 0 {
		fmt.Fprintf(&b, " · confidence %d%%", f.Confidence)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "> %s\n\n", DiagnosisText(f))

	if f.Evidence != "" {
		fmt.Fprintf(&b, "**Evidence:** %s\n\n", f.Evidence)
	}

	if len(f.Remediation) > 0 {
		b.WriteString("### Remediation\n\n")
		for i, step := range f.Remediation {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	}

	if f.ProTip != "" {
		fmt.Fprintf(&b, "> 💡 **Pro tip:** %s\n", f.ProTip)
	}

	return b.String()
}
