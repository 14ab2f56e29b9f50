package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/rasa/internal/app"
	"github.com/joshsymonds/rasa/internal/app/apptest"
	"github.com/joshsymonds/rasa/internal/models"
)

func TestNew(t *testing.T) {
	opts := apptest.Options(t, "")
	a := apptest.New(t, opts)

	dataDir, err := a.Config.DataPath()
	require.NoError(t, err)
	assert.DirExists(t, dataDir)
	assert.Equal(t, dataDir, a.Storage.BaseDir())
	assert.NotEmpty(t, a.Catalog.Commands())
	assert.NotEmpty(t, a.Catalog.Incidents())
}

func TestNew_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))

	_, err := app.New(app.Options{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestNew_MissingExplicitConfig(t *testing.T) {
	_, err := app.New(app.Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestAnalyzerUsesConfig(t *testing.T) {
	a := apptest.New(t, apptest.Options(t, ""))

	run, err := a.Analyzer().Run(context.Background(), "test", "Radar detected on channel 52", nil)
	require.NoError(t, err)
	require.Len(t, run.Findings, 1)
	assert.Equal(t, models.CategoryRFInterference, run.Findings[0].Category)
}

func TestHistoryOpensOnce(t *testing.T) {
	a := apptest.New(t, apptest.Options(t, ""))

	first, err := a.History()
	require.NoError(t, err)
	second, err := a.History()
	require.NoError(t, err)
	assert.Same(t, first, second)

	path, err := a.Config.DatabasePath()
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSessionsPersistAcrossApps(t *testing.T) {
	opts := apptest.LoggedIn(t, "")

	a := apptest.New(t, opts)
	session, err := a.Sessions.Current()
	require.NoError(t, err)
	assert.Equal(t, "Admin", session.Username)
}

func TestCloseWithoutHistory(t *testing.T) {
	a, err := app.New(*apptest.Options(t, ""))
	require.NoError(t, err)
	assert.NoError(t, a.Close())
}
