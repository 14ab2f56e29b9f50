package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/rasa/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		errMsg  string
		wantErr bool
	}{
		{
			name: "valid complete config",
			yaml: `data_dir: /var/lib/rasa
database: /var/lib/rasa/history.db
log:
  level: debug
  format: json
analysis:
  step_delay: 250ms
  max_files: 8
catalog:
  commands_file: /etc/rasa/commands.yaml
ui:
  alt_screen: false
severity_overrides:
  CLIENT_ISSUE: critical
suppressions:
  - GENERAL
`,
		},
		{
			name: "partial config keeps defaults",
			yaml: `log:
  format: json
`,
		},
		{
			name:    "invalid yaml",
			yaml:    "log: [unclosed",
			wantErr: true,
			errMsg:  "parsing config YAML",
		},
		{
			name: "bad log level",
			yaml: `log:
  level: verbose
`,
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name: "bad log format",
			yaml: `log:
  format: xml
`,
			wantErr: true,
			errMsg:  "log.format",
		},
		{
			name: "negative step delay",
			yaml: `analysis:
  step_delay: -1s
`,
			wantErr: true,
			errMsg:  "analysis.step_delay",
		},
		{
			name: "step delay too long",
			yaml: `analysis:
  step_delay: 1m
`,
			wantErr: true,
			errMsg:  "analysis.step_delay",
		},
		{
			name: "zero max files",
			yaml: `analysis:
  max_files: 0
`,
			wantErr: true,
			errMsg:  "analysis.max_files",
		},
		{
			name: "empty data dir",
			yaml: `data_dir: ""
`,
			wantErr: true,
			errMsg:  "data_dir is required",
		},
		{
			name: "override unknown category",
			yaml: `severity_overrides:
  NOISE: info
`,
			wantErr: true,
			errMsg:  "unknown category",
		},
		{
			name: "override bad severity",
			yaml: `severity_overrides:
  GENERAL: HIGH
`,
			wantErr: true,
			errMsg:  "invalid severity",
		},
		{
			name: "suppress unknown category",
			yaml: `suppressions:
  - NOISE
`,
			wantErr: true,
			errMsg:  "suppressions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
		})
	}
}

func TestLoadConfigValues(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `data_dir: /var/lib/rasa
log:
  level: debug
analysis:
  step_delay: 250ms
ui:
  alt_screen: false
`))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/rasa", cfg.DataDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Debug())
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.Analysis.StepDelay)
	assert.Equal(t, 4, cfg.Analysis.MaxFiles)
	assert.False(t, cfg.UI.AltScreen)

	db, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/rasa/rasa.db", db)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestResolve(t *testing.T) {
	t.Run("missing default falls back", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("default file is read", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		dir := filepath.Join(home, ".config", "rasa")
		require.NoError(t, os.MkdirAll(dir, 0750))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  format: json\n"), 0600))

		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, err := Resolve(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("explicit non-yaml path rejected", func(t *testing.T) {
		_, err := Resolve(filepath.Join(t.TempDir(), "config.toml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config path")
	})
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 600*time.Millisecond, cfg.Analysis.StepDelay)
	assert.False(t, cfg.Debug())
}

func TestDatabasePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	path, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "rasa", "rasa.db"), path)

	cfg.Database = "~/elsewhere.db"
	path, err = cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "elsewhere.db"), path)
}

func TestApplyPolicy(t *testing.T) {
	cfg := Default()
	cfg.SeverityOverrides = map[string]string{models.CategoryClientIssue: models.SeverityCritical}
	cfg.Suppressions = []string{models.CategoryGeneral}

	findings := []models.Finding{
		{Title: "client", Severity: models.SeverityWarning, Category: models.CategoryClientIssue},
		{Title: "general", Severity: models.SeverityWarning, Category: models.CategoryGeneral},
		{Title: "rf", Severity: models.SeverityCritical, Category: models.CategoryRFInterference},
	}

	got := cfg.ApplyPolicy(findings)
	require.Len(t, got, 2)
	assert.Equal(t, models.SeverityCritical, got[0].Severity)
	assert.Equal(t, "rf", got[1].Title)

	assert.Equal(t, models.SeverityWarning, findings[0].Severity, "input untouched")

	sev, ok := cfg.GetSeverityOverride(models.CategoryJoinFailure)
	assert.False(t, ok)
	assert.Empty(t, sev)
	assert.True(t, cfg.IsSuppressed(models.CategoryGeneral))
}
