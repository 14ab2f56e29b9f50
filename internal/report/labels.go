package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joshsymonds/rasa/internal/models"
)

var (
	titleCaser = cases.Title(language.English)
	upperCaser = cases.Upper(language.English)
)

// words that stay upper case after title-casing
var acronyms = map[string]string{
	"Rf":   "RF",
	"Ap":   "AP",
	"Dfs":  "DFS",
	"Dhcp": "DHCP",
	"Cci":  "CCI",
}

// CategoryLabel turns a category constant into display text, e.g.
// "JOIN_FAILURE" becomes "Join Failure".
func CategoryLabel(category string) string {
	if category == "" {
		return ""
	}
	words := strings.Fields(titleCaser.String(strings.ReplaceAll(category, "_", " ")))
	for i, w := range words {
		if a, ok := acronyms[w]; ok {
			words[i] = a
		}
	}
	return strings.Join(words, " ")
}

// SeverityLabel is the badge text for a severity.
func SeverityLabel(severity string) string {
	return upperCaser.String(models.NormalizeSeverity(severity))
}

// DiagnosisText falls back to a placeholder when a finding has no diagnosis.
func DiagnosisText(f models.Finding) string {
	if strings.TrimSpace(f.Diagnosis) == "" {
		return "No specific diagnosis available."
	}
	return f.Diagnosis
}

// ConfidenceBar draws a width-cell bar for a 0-100 confidence score.
func ConfidenceBar(confidence, width int) string {
	if width <= 0 {
		return ""
	}
	confidence = max(0, min(confidence, 100))
	filled := confidence * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
