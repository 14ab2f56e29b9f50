// Package main is the entry point for the rasa network operations CLI.
// rasa translates configuration commands across wireless vendors, lists
// recent network incidents and classifies controller logs into findings with
// remediation steps, from the command line or an interactive terminal UI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/rasa/cmd/analyze"
	"github.com/joshsymonds/rasa/cmd/auth"
	"github.com/joshsymonds/rasa/cmd/config"
	"github.com/joshsymonds/rasa/cmd/history"
	"github.com/joshsymonds/rasa/cmd/incidents"
	"github.com/joshsymonds/rasa/cmd/translate"
	"github.com/joshsymonds/rasa/cmd/tui"
	"github.com/joshsymonds/rasa/internal/app"
	"github.com/joshsymonds/rasa/pkg/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.Error("rasa failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &app.Options{}

	root := &cobra.Command{
		Use:   "rasa",
		Short: "📡 RASA network operations toolkit",
		Long: `rasa helps wireless network operators triage problems.

It translates CLI commands between Cisco, Aruba and Ruckus controllers,
lists recent incidents and classifies controller logs into findings with
remediation steps. Run "rasa tui" for the interactive dashboard.`,
		Version:       fmt.Sprintf("%s (built %s)", version, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Configuration file (default ~/.config/rasa/config.yaml)")
	root.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "Log format (text or json)")

	root.AddCommand(
		analyze.NewCommand(opts),
		translate.NewCommand(opts),
		incidents.NewCommand(opts),
		history.NewCommand(opts),
		config.NewCommand(opts),
		tui.NewCommand(opts),
	)
	root.AddCommand(auth.NewCommands(opts)...)

	return root
}
