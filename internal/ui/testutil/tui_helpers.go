// Package testutil provides testing utilities for TUI components.
package testutil

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/rasa/internal/auth"
	"github.com/joshsymonds/rasa/internal/catalog"
	"github.com/joshsymonds/rasa/internal/database"
	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/internal/storage"
	"github.com/joshsymonds/rasa/pkg/logger"
)

// NewSessionManager returns an auth manager persisting to a temp directory.
func NewSessionManager(t *testing.T) *auth.Manager {
	t.Helper()

	store := storage.NewStorageWithLogger(t.TempDir(), logger.NewMockLogger())
	return auth.NewManager(store, auth.WithLogger(logger.NewMockLogger()))
}

// NewLoggedInSessionManager returns a manager that already holds the admin
// session.
func NewLoggedInSessionManager(t *testing.T) *auth.Manager {
	t.Helper()

	m := NewSessionManager(t)
	_, err := m.Login("Admin", "Admin123")
	require.NoError(t, err)
	return m
}

// CreateTestCatalog loads the embedded command and incident tables.
func CreateTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

// CreateTestFindings builds count findings cycling through the severities.
func CreateTestFindings(count int) []models.Finding {
	severities := models.ValidSeverities()
	categories := models.ValidCategories()

	findings := make([]models.Finding, count)
	for i := 0; i < count; i++ {
		findings[i] = models.Finding{
			Title:       fmt.Sprintf("Test finding %d", i+1),
			Severity:    severities[i%len(severities)],
			Category:    categories[i%len(categories)],
			Diagnosis:   fmt.Sprintf("Diagnosis for finding %d", i+1),
			Evidence:    fmt.Sprintf("evidence line %d", i+1),
			Remediation: []string{"Check the controller", "Re-run the analysis"},
			Confidence:  90,
		}
	}
	return findings
}

// CreateTestRun wraps findings in a completed run.
func CreateTestRun(findings []models.Finding) *models.AnalysisRun {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &models.AnalysisRun{
		ID:          "00000000-0000-4000-8000-000000000001",
		Source:      "test.log",
		Platform:    models.PlatformAireOS,
		StartedAt:   started,
		CompletedAt: started.Add(3 * time.Second),
		LineCount:   10,
		Findings:    findings,
	}
}

// SimulateKeyPress delivers key to model.
func SimulateKeyPress(model tea.Model, key string) (tea.Model, tea.Cmd) {
	return model.Update(KeyMsg(key))
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"backspace": tea.KeyBackspace,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+k":    tea.KeyCtrlK,
	"ctrl+l":    tea.KeyCtrlL,
	"ctrl+o":    tea.KeyCtrlO,
	"ctrl+r":    tea.KeyCtrlR,
}

// KeyMsg builds the tea.KeyMsg bubbletea would deliver for key. Names it
// does not know are sent as typed runes.
func KeyMsg(key string) tea.KeyMsg {
	if key == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if kt, ok := namedKeys[key]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// TypeText feeds text to the model one rune at a time.
func TypeText(model tea.Model, text string) tea.Model {
	for _, r := range text {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return model
}

// AssertViewContains asserts view holds every expected string.
func AssertViewContains(t *testing.T, view string, expected []string) {
	t.Helper()
	for _, want := range expected {
		assert.Contains(t, view, want)
	}
}

// CreateMemoryDB opens a private history database closed at test end.
func CreateMemoryDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewMemoryDB(database.WithLogger(logger.NewMockLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
