// Package config provides configuration loading and validation for rasa.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/pkg/pathutil"
)

// DefaultPath is where rasa looks for a config file when none is given.
const DefaultPath = "~/.config/rasa/config.yaml"

// MaxStepDelay bounds analysis.step_delay.
const MaxStepDelay = 10 * time.Second

// Config represents the complete rasa configuration.
type Config struct {
	SeverityOverrides map[string]string `yaml:"severity_overrides,omitempty"`
	DataDir           string            `yaml:"data_dir"`
	Database          string            `yaml:"database,omitempty"`
	Log               LogConfig         `yaml:"log"`
	Catalog           CatalogConfig     `yaml:"catalog,omitempty"`
	Suppressions      []string          `yaml:"suppressions,omitempty"`
	Analysis          AnalysisConfig    `yaml:"analysis"`
	UI                UIConfig          `yaml:"ui"`
}

// LogConfig controls pkg/logger setup.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AnalysisConfig tunes the log classifier.
type AnalysisConfig struct {
	StepDelay time.Duration `yaml:"step_delay"`
	MaxFiles  int           `yaml:"max_files"`
}

// CatalogConfig points at optional replacement tables.
type CatalogConfig struct {
	CommandsFile  string `yaml:"commands_file,omitempty"`
	IncidentsFile string `yaml:"incidents_file,omitempty"`
}

// UIConfig controls the terminal UI.
type UIConfig struct {
	// MarkdownStyle is a glamour style name; empty picks one for the terminal.
	MarkdownStyle string `yaml:"markdown_style,omitempty"`
	AltScreen     bool   `yaml:"alt_screen"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir: "~/.local/share/rasa",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Analysis: AnalysisConfig{
			StepDelay: 600 * time.Millisecond,
			MaxFiles:  4,
		},
		UI: UIConfig{AltScreen: true},
	}
}

// LoadConfig reads and parses a YAML configuration file on top of the
// defaults, then validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Resolve loads the config at path. An empty path means DefaultPath, and a
// missing default file yields Default().
func Resolve(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	validPath, err := pathutil.ValidateConfigPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	config, err := LoadConfig(validPath)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return config, nil
}

// Validate ensures the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json; got %q", c.Log.Format)
	}

	if c.Analysis.StepDelay < 0 || c.Analysis.StepDelay > MaxStepDelay {
		return fmt.Errorf("analysis.step_delay must be between 0 and %s", MaxStepDelay)
	}

	if c.Analysis.MaxFiles < 1 {
		return fmt.Errorf("analysis.max_files must be at least 1")
	}

	for category, severity := range c.SeverityOverrides {
		if !models.IsValidCategory(category) {
			return fmt.Errorf("severity_overrides: unknown category %q", category)
		}
		if !models.IsValidSeverity(severity) {
			return fmt.Errorf("severity_overrides.%s: invalid severity %q", category, severity)
		}
	}

	for _, category := range c.Suppressions {
		if !models.IsValidCategory(category) {
			return fmt.Errorf("suppressions: unknown category %q", category)
		}
	}

	return nil
}

// Debug reports whether debug logging is on.
func (c *Config) Debug() bool {
	return c.Log.Level == "debug"
}

// DataPath returns data_dir with "~" expanded.
func (c *Config) DataPath() (string, error) {
	return pathutil.ExpandHome(c.DataDir)
}

// DatabasePath returns the history database location, defaulting to
// rasa.db inside data_dir.
func (c *Config) DatabasePath() (string, error) {
	if c.Database != "" {
		return pathutil.ExpandHome(c.Database)
	}
	dir, err := c.DataPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rasa.db"), nil
}

// IsSuppressed reports whether findings of category are hidden.
func (c *Config) IsSuppressed(category string) bool {
	return slices.Contains(c.Suppressions, category)
}

// GetSeverityOverride returns the overridden severity for a category, if any.
func (c *Config) GetSeverityOverride(category string) (string, bool) {
	if c.SeverityOverrides == nil {
		return "", false
	}
	severity, ok := c.SeverityOverrides[category]
	return severity, ok
}

// ApplyPolicy drops suppressed categories and applies severity overrides.
// The input slice is not modified.
func (c *Config) ApplyPolicy(findings []models.Finding) []models.Finding {
	out := make([]models.Finding, 0, len(findings))
	for _, f := range findings {
		if c.IsSuppressed(f.Category) {
			continue
		}
		if severity, ok := c.GetSeverityOverride(f.Category); ok {
			f.Severity = severity
		}
		out = append(out, f)
	}
	return out
}
