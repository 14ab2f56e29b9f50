// Package config implements the config command for checking rasa settings.
package config

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joshsymonds/rasa/internal/app"
	"github.com/joshsymonds/rasa/internal/config"
	"github.com/joshsymonds/rasa/internal/storage"
	"github.com/joshsymonds/rasa/pkg/logger"
	"github.com/joshsymonds/rasa/pkg/pathutil"
)

// NewCommand builds the config command.
func NewCommand(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate or print the configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate",
			Short: "Validate a configuration file",
			Example: `  rasa config validate
  rasa --config ./rasa.yaml config validate`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runValidate(cmd.OutOrStdout(), opts.ConfigPath)
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runShow(cmd.OutOrStdout(), opts.ConfigPath)
			},
		},
	)

	return cmd
}

func runValidate(w io.Writer, path string) error {
	shown := path
	if shown == "" {
		shown = config.DefaultPath
	}
	fmt.Fprintf(w, "🔍 Validating configuration: %s\n\n", shown)

	cfg, err := config.Resolve(path)
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	printValidationResults(w, cfg)

	fmt.Fprintln(w, "\n✅ Configuration is valid!")
	return nil
}

func printValidationResults(w io.Writer, cfg *config.Config) {
	printStorage(w, cfg)

	fmt.Fprintln(w, "\n📝 Logging:")
	fmt.Fprintf(w, "   Level: %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "   Format: %s\n", cfg.Log.Format)

	fmt.Fprintln(w, "\n🧠 Analysis:")
	fmt.Fprintf(w, "   Step delay: %s\n", cfg.Analysis.StepDelay)
	fmt.Fprintf(w, "   Max concurrent files: %d\n", cfg.Analysis.MaxFiles)

	if cfg.Catalog.CommandsFile != "" || cfg.Catalog.IncidentsFile != "" {
		fmt.Fprintln(w, "\n📚 Catalog overrides:")
		if cfg.Catalog.CommandsFile != "" {
			fmt.Fprintf(w, "   Commands: %s\n", cfg.Catalog.CommandsFile)
		}
		if cfg.Catalog.IncidentsFile != "" {
			fmt.Fprintf(w, "   Incidents: %s\n", cfg.Catalog.IncidentsFile)
		}
	}

	if len(cfg.Suppressions) > 0 {
		fmt.Fprintf(w, "\n🔇 Suppressions: %s\n", strings.Join(cfg.Suppressions, ", "))
	}

	if len(cfg.SeverityOverrides) > 0 {
		fmt.Fprintf(w, "\n⚖️  Severity Overrides: %d configured\n", len(cfg.SeverityOverrides))
		categories := make([]string, 0, len(cfg.SeverityOverrides))
		for category := range cfg.SeverityOverrides {
			categories = append(categories, category)
		}
		slices.Sort(categories)
		for _, category := range categories {
			fmt.Fprintf(w, "   %s → %s\n", category, cfg.SeverityOverrides[category])
		}
	}

	logger.Debug("Validated configuration", "alt_screen", cfg.UI.AltScreen)
}

func printStorage(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "📁 Storage:")
	fmt.Fprintf(w, "   Data directory: %s\n", cfg.DataDir)

	dataDir, err := cfg.DataPath()
	if err != nil {
		return
	}
	if dbPath, err := cfg.DatabasePath(); err == nil {
		note := ""
		if inside, err := pathutil.IsWithinDirectory(dbPath, dataDir); err == nil && !inside {
			note = " (outside data directory)"
		}
		fmt.Fprintf(w, "   History database: %s%s\n", dbPath, note)
	}

	keys, err := storage.NewStorage(dataDir).Keys()
	switch {
	case err != nil:
		fmt.Fprintf(w, "   Stored state: unreadable (%v)\n", err)
	case len(keys) == 0:
		fmt.Fprintln(w, "   Stored state: none")
	default:
		fmt.Fprintf(w, "   Stored state: %s\n", strings.Join(keys, ", "))
	}
}

func runShow(w io.Writer, path string) error {
	cfg, err := config.Resolve(path)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
