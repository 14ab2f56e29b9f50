// Package tui implements the tui command, which starts the interactive
// dashboard.
package tui

import (
	"github.com/spf13/cobra"

	"github.com/joshsymonds/rasa/internal/app"
	"github.com/joshsymonds/rasa/internal/ui"
)

// Options represents tui command options.
type Options struct {
	NoAltScreen bool
}

// NewCommand builds the tui command.
func NewCommand(global *app.Options) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive dashboard",
		Long: `Start the RASA dashboard: operator login, log analysis, recent incidents
and the CLI translator. Logins are shared with "rasa login".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(*global)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // closed on exit

			return ui.NewTUI(Deps(a), a.Config.UI.AltScreen && !opts.NoAltScreen).Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&opts.NoAltScreen, "no-alt-screen", false, "Render inline instead of using the alternate screen")

	return cmd
}

// Deps builds the dashboard dependencies from a. A history database that
// fails to open disables recording instead of blocking the dashboard.
func Deps(a *app.App) ui.Deps {
	deps := ui.Deps{
		Sessions:      a.Sessions,
		Catalog:       a.Catalog,
		Analyzer:      a.Analyzer(),
		Policy:        a.Config.ApplyPolicy,
		Logger:        a.Logger.With("component", "tui"),
		MarkdownStyle: a.Config.UI.MarkdownStyle,
	}

	db, err := a.History()
	if err != nil {
		a.Logger.Warn("History disabled", "error", err)
		return deps
	}
	deps.History = db
	return deps
}
