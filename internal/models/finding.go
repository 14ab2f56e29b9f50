// Package models contains the data structures shared across rasa: analysis
// findings, incidents, vendor command mappings and operator sessions.
package models

import (
	"fmt"
	"sort"
	"time"
)

// Finding categories produced by the log analyzer.
const (
	CategoryJoinFailure    = "JOIN_FAILURE"
	CategoryClientIssue    = "CLIENT_ISSUE"
	CategoryRFInterference = "RF_INTERFERENCE"
	CategoryGeneral        = "GENERAL"
)

// Platform identifiers for the controller OS detected in a log.
const (
	PlatformCatalyst = "CATALYST (IOS-XE)"
	PlatformAireOS   = "AIREOS"
	PlatformUnknown  = "UNKNOWN"
)

// Finding is one diagnosis emitted by the log analyzer.
type Finding struct {
	Title       string   `json:"title"`
	Severity    string   `json:"severity"`
	Category    string   `json:"category"`
	Diagnosis   string   `json:"diagnosis"`
	Evidence    string   `json:"evidence"`
	ProTip      string   `json:"pro_tip,omitempty"`
	Remediation []string `json:"remediation"`
	Confidence  int      `json:"confidence"`
}

// IsValid checks if a finding has all required fields.
func (f *Finding) IsValid() error {
	if f.Title == "" {
		return fmt.Errorf("finding missing required field: title")
	}
	if !IsValidSeverity(f.Severity) {
		return fmt.Errorf("finding has invalid severity %q", f.Severity)
	}
	if !IsValidCategory(f.Category) {
		return fmt.Errorf("finding has invalid category %q", f.Category)
	}
	if f.Confidence < 0 || f.Confidence > 100 {
		return fmt.Errorf("finding confidence %d out of range", f.Confidence)
	}
	if len(f.Remediation) == 0 {
		return fmt.Errorf("finding missing required field: remediation")
	}
	return nil
}

// ValidCategories lists the analyzer categories in emission order.
func ValidCategories() []string {
	return []string{
		CategoryJoinFailure,
		CategoryClientIssue,
		CategoryRFInterference,
		CategoryGeneral,
	}
}

// IsValidCategory checks if a category is known.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// AnalysisRun is the result envelope of one analyzer invocation.
type AnalysisRun struct {
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	ID          string    `json:"id"`
	Platform    string    `json:"platform"`
	Source      string    `json:"source"`
	Operator    string    `json:"operator,omitempty"`
	Findings    []Finding `json:"findings"`
	LineCount   int       `json:"line_count"`
}

// RunSummary provides high-level statistics for a run.
type RunSummary struct {
	BySeverity    map[string]int `json:"by_severity"`
	ByCategory    map[string]int `json:"by_category"`
	TotalFindings int            `json:"total_findings"`
}

// Summary counts the run's findings by severity and category.
func (r *AnalysisRun) Summary() RunSummary {
	s := RunSummary{
		BySeverity: make(map[string]int),
		ByCategory: make(map[string]int),
	}
	for _, f := range r.Findings {
		s.BySeverity[f.Severity]++
		s.ByCategory[f.Category]++
	}
	s.TotalFindings = len(r.Findings)
	return s
}

// Duration returns how long the run took.
func (r *AnalysisRun) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// SortBySeverity orders findings most severe first, keeping emission order
// within a severity.
func SortBySeverity(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return SeverityRank(findings[i].Severity) < SeverityRank(findings[j].Severity)
	})
}
