package models

import "strings"

// Severity levels used by findings and incidents.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// ValidSeverities returns all valid severity levels, most severe first.
func ValidSeverities() []string {
	return []string{
		SeverityCritical,
		SeverityWarning,
		SeverityInfo,
	}
}

// IsValidSeverity checks if a severity level is valid.
func IsValidSeverity(severity string) bool {
	for _, s := range ValidSeverities() {
		if s == severity {
			return true
		}
	}
	return false
}

// NormalizeSeverity maps common spellings onto the three rasa levels.
// Unrecognised values become info.
func NormalizeSeverity(severity string) string {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "critical", "crit", "high", "error", "emergency", "alert":
		return SeverityCritical
	case "warning", "warn", "medium", "moderate":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// SeverityRank orders severities for sorting; lower is more severe.
func SeverityRank(severity string) int {
	switch severity {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}
