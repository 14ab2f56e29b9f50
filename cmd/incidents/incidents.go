// Package incidents implements the incidents command for viewing recent
// network alerts.
package incidents

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/joshsymonds/rasa/internal/app"
	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/internal/report"
)

// Options represents incidents command options.
type Options struct {
	Severity string
	Format   string
}

// NewCommand builds the incidents command.
func NewCommand(global *app.Options) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "incidents [id]",
		Short: "List recent incidents or show one in detail",
		Example: `  rasa incidents
  rasa incidents --severity critical
  rasa incidents dfs-001`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(*global)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // nothing to flush

			if len(args) == 1 {
				return show(cmd.OutOrStdout(), a, opts, args[0])
			}
			return list(cmd.OutOrStdout(), a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Severity, "severity", "s", "", "Filter by severity (critical, warning, info)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format (table, json)")

	return cmd
}

func list(w io.Writer, a *app.App, opts *Options) error {
	if opts.Severity != "" && !models.IsValidSeverity(opts.Severity) {
		return fmt.Errorf("invalid severity %q", opts.Severity)
	}
	incidents := a.Catalog.IncidentsBySeverity(opts.Severity)

	switch opts.Format {
	case "json":
		return writeJSON(w, incidents)
	case "table":
	default:
		return fmt.Errorf("unknown format %q (table, json)", opts.Format)
	}

	if len(incidents) == 0 {
		a.Logger.Debug("No incidents matched", "severity", opts.Severity)
		_, err := fmt.Fprintln(w, "No incidents recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tSEVERITY\tTITLE\tLOCATION\tWHEN"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, strings.Repeat("-", 80)); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, inc := range incidents {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			inc.ID,
			report.SeverityLabel(inc.Severity),
			inc.Title,
			inc.Location,
			inc.Timestamp,
		); err != nil {
			return fmt.Errorf("writing incident entry: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts := a.Catalog.SeverityCounts()
	_, err := fmt.Fprintf(w, "\nTotal: %d incidents (%d critical, %d warning, %d info)\n",
		len(a.Catalog.Incidents()),
		counts[models.SeverityCritical],
		counts[models.SeverityWarning],
		counts[models.SeverityInfo])
	return err
}

func show(w io.Writer, a *app.App, opts *Options, id string) error {
	inc, err := a.Catalog.Incident(id)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "json":
		return writeJSON(w, inc)
	case "table":
	default:
		return fmt.Errorf("unknown format %q (table, json)", opts.Format)
	}

	heading := color.New(color.Bold)
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", heading.Sprint(inc.Title), report.SeverityLabel(inc.Severity))
	fmt.Fprintf(&b, "%s • %s\n\n", inc.Location, inc.Timestamp)
	fmt.Fprintf(&b, "%s\n%s\n\n", heading.Sprint("Evidence"), inc.Evidence)
	fmt.Fprintf(&b, "%s\n%s\n\n", heading.Sprint("Device Impacted"), inc.Device)
	b.WriteString(heading.Sprint("Remediation"))
	b.WriteString("\n")
	for i, step := range inc.Remediation {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
	}

	_, err = io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
