// Package translate implements the translate command for mapping CLI
// commands between wireless vendors.
package translate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/rasa/internal/app"
	"github.com/joshsymonds/rasa/internal/models"
)

// Options represents translate command options.
type Options struct {
	Vendor string
	From   string
	To     string
	Format string
}

// NewCommand builds the translate command.
func NewCommand(global *app.Options) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "translate [term]",
		Short: "Search or translate CLI commands across Cisco, Aruba and Ruckus",
		Long: `Search the multi-vendor command table, or translate one vendor's command
into the others.

Without --from the arguments are a case-insensitive search term matched
against the description and every vendor column (or only --vendor's column).
With --from the arguments are an exact command for that vendor.`,
		Example: `  rasa translate client
  rasa translate --vendor aruba "show ap"
  rasa translate --from cisco show ap summary
  rasa translate --from cisco --to ruckus show ap summary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(*global)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // nothing to flush

			return run(cmd.OutOrStdout(), a, opts, strings.Join(args, " "))
		},
	}

	vendors := strings.Join(models.Vendors(), ", ")
	cmd.Flags().StringVar(&opts.Vendor, "vendor", "", "Only search this vendor's column ("+vendors+")")
	cmd.Flags().StringVar(&opts.From, "from", "", "Translate an exact command from this vendor")
	cmd.Flags().StringVar(&opts.To, "to", "", "With --from, print only this vendor's command")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format (table, json)")

	return cmd
}

func run(w io.Writer, a *app.App, opts *Options, term string) error {
	if opts.Format != "table" && opts.Format != "json" {
		return fmt.Errorf("unknown format %q (table, json)", opts.Format)
	}
	if opts.To != "" && opts.From == "" {
		return fmt.Errorf("--to requires --from")
	}

	if opts.From != "" {
		if term == "" {
			return fmt.Errorf("--from needs a command to translate")
		}
		mapping, err := a.Catalog.Translate(strings.ToLower(opts.From), term)
		if err != nil {
			return err
		}
		a.Logger.Debug("Translated command", "from", opts.From, "command", term, "description", mapping.Description)

		if opts.To != "" {
			target := mapping.Command(strings.ToLower(opts.To))
			if target == "" {
				return fmt.Errorf("unknown vendor: %s", opts.To)
			}
			_, err := fmt.Fprintln(w, target)
			return err
		}
		return display(w, opts.Format, []models.CommandMapping{mapping})
	}

	rows, err := a.Catalog.Search(term, strings.ToLower(opts.Vendor))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		a.Logger.Info("No results found", "term", term)
		if opts.Format == "json" {
			return display(w, opts.Format, rows)
		}
		_, err := fmt.Fprintln(w, "No results found")
		return err
	}
	return display(w, opts.Format, rows)
}

func display(w io.Writer, format string, rows []models.CommandMapping) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "DESCRIPTION\tCISCO (WLC)\tARUBA (AOS)\tRUCKUS (SZ)"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Description, r.Cisco, r.Aruba, r.Ruckus); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}
