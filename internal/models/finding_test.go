package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFinding() Finding {
	return Finding{
		Title:       "DFS Radar Detection",
		Severity:    SeverityCritical,
		Category:    CategoryRFInterference,
		Confidence:  100,
		Diagnosis:   "Radar pulse detected on DFS Channel 52.",
		Evidence:    "Syslog contains RRM radar detection signature.",
		Remediation: []string{"Move critical devices to non-DFS channels."},
	}
}

func TestFindingIsValid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Finding)
		wantErr string
	}{
		{name: "valid finding", mutate: func(*Finding) {}},
		{name: "missing title", mutate: func(f *Finding) { f.Title = "" }, wantErr: "title"},
		{name: "bad severity", mutate: func(f *Finding) { f.Severity = "high" }, wantErr: "invalid severity"},
		{name: "bad category", mutate: func(f *Finding) { f.Category = "DHCP" }, wantErr: "invalid category"},
		{name: "confidence too high", mutate: func(f *Finding) { f.Confidence = 101 }, wantErr: "out of range"},
		{name: "no remediation", mutate: func(f *Finding) { f.Remediation = nil }, wantErr: "remediation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFinding()
			tt.mutate(&f)
			err := f.IsValid()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"critical", SeverityCritical},
		{"CRITICAL", SeverityCritical},
		{"high", SeverityCritical},
		{"warning", SeverityWarning},
		{"Warn", SeverityWarning},
		{"medium", SeverityWarning},
		{"info", SeverityInfo},
		{"", SeverityInfo},
		{"whatever", SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSeverity(tt.input))
		})
	}
}

func TestSortBySeverity(t *testing.T) {
	findings := []Finding{
		{Title: "a", Severity: SeverityInfo},
		{Title: "b", Severity: SeverityCritical},
		{Title: "c", Severity: SeverityWarning},
		{Title: "d", Severity: SeverityCritical},
	}

	SortBySeverity(findings)

	titles := make([]string, len(findings))
	for i, f := range findings {
		titles[i] = f.Title
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, titles)
}

func TestAnalysisRunSummary(t *testing.T) {
	start := time.Date(2026, 6, 12, 14, 5, 0, 0, time.UTC)
	run := AnalysisRun{
		StartedAt:   start,
		CompletedAt: start.Add(3 * time.Second),
		Findings: []Finding{
			{Severity: SeverityCritical, Category: CategoryJoinFailure},
			{Severity: SeverityCritical, Category: CategoryClientIssue},
			{Severity: SeverityWarning, Category: CategoryClientIssue},
		},
	}

	s := run.Summary()
	assert.Equal(t, 3, s.TotalFindings)
	assert.Equal(t, 2, s.BySeverity[SeverityCritical])
	assert.Equal(t, 1, s.BySeverity[SeverityWarning])
	assert.Equal(t, 2, s.ByCategory[CategoryClientIssue])
	assert.Equal(t, 3*time.Second, run.Duration())

	assert.Zero(t, (&AnalysisRun{StartedAt: start}).Duration())
}

func TestCommandMappingCommand(t *testing.T) {
	row := CommandMapping{
		Description: "Show AP summary and status",
		Cisco:       "show ap summary",
		Aruba:       "show ap database",
		Ruckus:      "get all-ap-info",
	}

	assert.Equal(t, "show ap summary", row.Command(VendorCisco))
	assert.Equal(t, "show ap database", row.Command(VendorAruba))
	assert.Equal(t, "get all-ap-info", row.Command(VendorRuckus))
	assert.Empty(t, row.Command("juniper"))
}

func TestSessionLoggedInAt(t *testing.T) {
	s := Session{LoginTime: "2026-10-17T09:30:00.123Z"}
	assert.Equal(t, 2026, s.LoggedInAt().Year())

	bad := Session{LoginTime: "yesterday"}
	assert.True(t, bad.LoggedInAt().IsZero())
}

func TestStepString(t *testing.T) {
	s := NewStep(0, "Detecting WLC Operating System...")
	assert.Equal(t, "[1] Detecting WLC Operating System...", s.String())
	assert.False(t, s.At.IsZero())
}
