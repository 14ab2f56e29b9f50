package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joshsymonds/rasa/internal/models"
)

type jsonFormat struct{}

type jsonReport struct {
	*models.AnalysisRun
	Summary    models.RunSummary `json:"summary"`
	DurationMS int64             `json:"duration_ms"`
}

func (f *jsonFormat) Name() string {
	return "json"
}

func (f *jsonFormat) Description() string {
	return "Machine-readable JSON with a severity summary"
}

func (f *jsonFormat) Render(w io.Writer, run *models.AnalysisRun) error {
	out := jsonReport{
		AnalysisRun: run,
		Summary:     run.Summary(),
		DurationMS:  run.Duration().Milliseconds(),
	}
	if out.Findings == nil {
		// keep "findings": [] rather than null
		clone := *run
		clone.Findings = []models.Finding{}
		out.AnalysisRun = &clone
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}
