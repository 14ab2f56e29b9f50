// Package history implements the history command for browsing recorded
// analysis runs.
package history

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/rasa/internal/app"
	"github.com/joshsymonds/rasa/internal/database"
	"github.com/joshsymonds/rasa/internal/report"
)

// ListOptions represents history list options.
type ListOptions struct {
	Operator string
	Platform string
	Since    time.Duration
	Limit    int
	Mine     bool
}

// NewCommand builds the history command and its subcommands.
func NewCommand(global *app.Options) *cobra.Command {
	listOpts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded analysis runs",
		Long: `Browse analysis runs recorded with "rasa analyze --save" or from the TUI.
An operator session is required.`,
		Example: `  rasa history
  rasa history --mine --since 24h
  rasa history show latest --format markdown
  rasa history prune --older-than 720h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHistory(cmd.Context(), global, func(ctx context.Context, a *app.App, db *database.DB) error {
				return list(ctx, cmd.OutOrStdout(), a, db, listOpts)
			})
		},
	}

	cmd.Flags().IntVarP(&listOpts.Limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&listOpts.Operator, "operator", "", "Only runs by this operator")
	cmd.Flags().BoolVar(&listOpts.Mine, "mine", false, "Only runs by the logged-in operator")
	cmd.Flags().StringVar(&listOpts.Platform, "platform", "", "Only runs on this platform (e.g. AIREOS)")
	cmd.Flags().DurationVar(&listOpts.Since, "since", 0, "Only runs newer than this (e.g. 24h)")

	cmd.AddCommand(
		newShowCommand(global),
		newDeleteCommand(global),
		newPruneCommand(global),
		newStatsCommand(global),
	)
	return cmd
}

// withHistory builds the app, checks for a session and opens the database.
func withHistory(ctx context.Context, global *app.Options, fn func(context.Context, *app.App, *database.DB) error) error {
	a, err := app.New(*global)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // closed after fn returns

	if _, err := a.Sessions.Require(); err != nil {
		return err
	}

	db, err := a.History()
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	return fn(ctx, a, db)
}

func list(ctx context.Context, w io.Writer, a *app.App, db *database.DB, opts *ListOptions) error {
	filter := database.RunFilter{Limit: opts.Limit}
	if opts.Mine {
		session, err := a.Sessions.Current()
		if err != nil {
			return err
		}
		filter.Operator = &session.Username
	} else if opts.Operator != "" {
		filter.Operator = &opts.Operator
	}
	if opts.Platform != "" {
		filter.Platform = &opts.Platform
	}
	if opts.Since > 0 {
		since := time.Now().Add(-opts.Since)
		filter.Since = &since
	}

	runs, err := db.ListRuns(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		a.Logger.Debug("No analysis runs matched", "filter", filter)
		_, err := fmt.Fprintln(w, "No analysis runs recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tSOURCE\tPLATFORM\tOPERATOR\tLINES\tFINDINGS\tTIME AGO"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, strings.Repeat("-", 90)); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	for _, r := range runs {
		findings := fmt.Sprintf("%d", r.Counts.Total)
		if r.Counts.Critical > 0 {
			findings = fmt.Sprintf("%d (🚨 %d)", r.Counts.Total, r.Counts.Critical)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			shortID(r.ID),
			r.Source,
			r.Platform,
			valueOr(r.Operator, "-"),
			r.LineCount,
			findings,
			formatTimeAgo(r.StartedAt),
		); err != nil {
			return fmt.Errorf("writing run entry: %w", err)
		}
	}
	return tw.Flush()
}

func newShowCommand(global *app.Options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <run-id|latest>",
		Short: "Render a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd.Context(), global, func(ctx context.Context, a *app.App, db *database.DB) error {
				id, err := resolveID(ctx, db, args[0])
				if err != nil {
					return err
				}
				run, err := db.GetRun(ctx, id)
				if err != nil {
					return err
				}
				f, err := report.GetFormat(format, a.Logger)
				if err != nil {
					return err
				}
				return f.Render(cmd.OutOrStdout(), run)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format ("+strings.Join(report.ListFormats(), ", ")+")")
	return cmd
}

func newDeleteCommand(global *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd.Context(), global, func(ctx context.Context, a *app.App, db *database.DB) error {
				id, err := resolveID(ctx, db, args[0])
				if err != nil {
					return err
				}
				if err := db.DeleteRun(ctx, id); err != nil {
					return err
				}
				a.Logger.Info("Deleted analysis run", "run", id)
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", id)
				return err
			})
		},
	}
}

func newPruneCommand(global *app.Options) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			return withHistory(cmd.Context(), global, func(ctx context.Context, a *app.App, db *database.DB) error {
				removed, err := db.PruneRuns(ctx, time.Now().Add(-olderThan))
				if err != nil {
					return fmt.Errorf("pruning runs: %w", err)
				}
				a.Logger.Info("Pruned analysis runs", "removed", removed, "older_than", olderThan)
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
				return err
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age cutoff")
	return cmd
}

func newStatsCommand(global *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count recorded findings by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHistory(cmd.Context(), global, func(ctx context.Context, _ *app.App, db *database.DB) error {
				stats, err := db.CategoryStats(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				if _, err := fmt.Fprintln(tw, "CATEGORY\tFINDINGS"); err != nil {
					return fmt.Errorf("writing header: %w", err)
				}
				for _, s := range stats {
					if _, err := fmt.Fprintf(tw, "%s\t%d\n", report.CategoryLabel(s.Category), s.Count); err != nil {
						return fmt.Errorf("writing stat: %w", err)
					}
				}
				return tw.Flush()
			})
		},
	}
}

// resolveID maps "latest" or a unique id prefix onto a full run id.
func resolveID(ctx context.Context, db *database.DB, ref string) (string, error) {
	if ref == "latest" {
		runs, err := db.ListRuns(ctx, database.RunFilter{Limit: 1})
		if err != nil {
			return "", err
		}
		if len(runs) == 0 {
			return "", database.ErrRunNotFound
		}
		return runs[0].ID, nil
	}
	if len(ref) >= 36 {
		return ref, nil
	}

	runs, err := db.ListRuns(ctx, database.RunFilter{})
	if err != nil {
		return "", err
	}
	var match string
	for _, r := range runs {
		if strings.HasPrefix(r.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("run id prefix %q is ambiguous", ref)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", database.ErrRunNotFound, ref)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

var ageUnits = []struct {
	below time.Duration
	size  time.Duration
	name  string
}{
	{time.Hour, time.Minute, "minute"},
	{24 * time.Hour, time.Hour, "hour"},
	{7 * 24 * time.Hour, 24 * time.Hour, "day"},
	{30 * 24 * time.Hour, 7 * 24 * time.Hour, "week"},
}

func formatTimeAgo(t time.Time) string {
	age := time.Since(t)
	if age < time.Minute {
		return "just now"
	}
	for _, u := range ageUnits {
		if age >= u.below {
			continue
		}
		n := int(age / u.size)
		if n == 1 {
			return "1 " + u.name + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, u.name)
	}
	return t.Format("Jan 2, 2006")
}
