// Package analyze implements the analyze command, which classifies
// controller logs into findings.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/joshsymonds/rasa/internal/analyzer"
	"github.com/joshsymonds/rasa/internal/app"
	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/internal/report"
	"github.com/joshsymonds/rasa/internal/watcher"
	"github.com/joshsymonds/rasa/pkg/logger"
)

// ErrThresholdExceeded is returned when --fail-on matches a finding.
var ErrThresholdExceeded = errors.New("findings at or above the failure threshold")

// Options represents analyze command options.
type Options struct {
	Sample string
	Format string
	Output string
	FailOn string
	Follow bool
	Save   bool
	Quiet  bool
}

type input struct {
	source string
	path   string
	raw    string
}

// NewCommand builds the analyze command.
func NewCommand(global *app.Options) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Classify controller logs into findings with remediation",
		Long: `Analyze wireless controller logs and report AP join failures, client
association problems and RF interference, each with remediation steps.

Pass log files as arguments, "-" to read standard input, or --sample to try
a built-in log. With --follow a single file is re-analyzed whenever it
changes and only new findings are printed.`,
		Example: `  rasa analyze wlc.log
  rasa analyze --sample catalyst
  kubectl logs wlc-0 | rasa analyze -
  rasa analyze a.log b.log --format json
  rasa analyze wlc.log --format html -o report.html
  rasa analyze --follow /var/log/wlc.log --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate(opts, args); err != nil {
				return err
			}

			a, err := app.New(*global)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // closed on exit

			if opts.Follow {
				return follow(cmd.Context(), cmd.OutOrStdout(), a, opts, args[0])
			}
			return run(cmd.Context(), cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Sample, "sample", "", fmt.Sprintf("Analyze a built-in sample (%s)", strings.Join(analyzer.SampleNames(), ", ")))
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", fmt.Sprintf("Output format (%s)", strings.Join(report.ListFormats(), ", ")))
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the report to a file (single input only)")
	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "", "Exit non-zero when a finding is at or above this severity")
	cmd.Flags().BoolVar(&opts.Follow, "follow", false, "Watch a single file and re-analyze on change")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Record runs in the history database (requires login)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Hide analysis progress")

	return cmd
}

func validate(opts *Options, args []string) error {
	if opts.Sample != "" && len(args) > 0 {
		return errors.New("--sample cannot be combined with file arguments")
	}
	if opts.Sample == "" && len(args) == 0 {
		return errors.New("nothing to analyze: pass a file, \"-\" for stdin, or --sample")
	}
	if opts.Output != "" && len(args) > 1 {
		return errors.New("--output needs exactly one input")
	}
	if opts.FailOn != "" && !models.IsValidSeverity(opts.FailOn) {
		return fmt.Errorf("invalid --fail-on severity %q (want %s)", opts.FailOn, strings.Join(models.ValidSeverities(), ", "))
	}
	if opts.Follow {
		if opts.Sample != "" || len(args) != 1 || args[0] == "-" {
			return errors.New("--follow needs exactly one file")
		}
		if opts.Output != "" {
			return errors.New("--follow cannot write to --output")
		}
	}
	return nil
}

func run(ctx context.Context, cmd *cobra.Command, a *app.App, opts *Options, args []string) error {
	format, err := report.GetFormat(opts.Format, a.Logger)
	if err != nil {
		return err
	}

	operator, err := operatorFor(a, opts.Save)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(cmd.InOrStdin(), opts, args)
	if err != nil {
		return err
	}

	a.Logger.Info("Starting analysis", "inputs", len(inputs), "format", opts.Format)

	errw := cmd.ErrOrStderr()

	// Progress steps only help when a person is watching text output, and
	// the step delay only when that person is at a terminal.
	showProgress := !opts.Quiet && opts.Format == "text" && opts.Output == ""
	var anaOpts []analyzer.Option
	if !showProgress || !isTerminal(errw) {
		anaOpts = append(anaOpts, analyzer.WithStepDelay(0))
	}
	ana := a.Analyzer(anaOpts...)

	runs := make([]*models.AnalysisRun, len(inputs))
	var progressMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Config.Analysis.MaxFiles, 1))
	for i, in := range inputs {
		g.Go(func() error {
			if in.path != "" {
				data, err := os.ReadFile(filepath.Clean(in.path))
				if err != nil {
					return fmt.Errorf("reading %s: %w", in.path, err)
				}
				in.raw = string(data)
			}

			var onStep analyzer.StepFunc
			if showProgress {
				onStep = func(step models.Step) {
					progressMu.Lock()
					defer progressMu.Unlock()
					if len(inputs) > 1 {
						fmt.Fprintf(errw, "➜ [%s] %s\n", in.source, step.Message)
						return
					}
					fmt.Fprintf(errw, "➜ %s\n", step.Message)
				}
			}

			r, err := ana.Run(gctx, in.source, in.raw, onStep)
			if err != nil {
				return fmt.Errorf("analyzing %s: %w", in.source, err)
			}
			r.Findings = a.Config.ApplyPolicy(r.Findings)
			r.Operator = operator
			runs[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.Save {
		if err := saveRuns(ctx, a, runs); err != nil {
			return err
		}
	}

	if opts.Output != "" {
		if err := report.WriteFile(format, runs[0], opts.Output, a.Logger); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📄 Report written to %s\n", opts.Output)
	} else {
		out := cmd.OutOrStdout()
		for i, r := range runs {
			if i > 0 && opts.Format == "text" {
				fmt.Fprintln(out)
			}
			if err := format.Render(out, r); err != nil {
				return fmt.Errorf("rendering %s: %w", r.Source, err)
			}
		}
	}

	return checkThreshold(runs, opts.FailOn)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func collectInputs(stdin io.Reader, opts *Options, args []string) ([]input, error) {
	if opts.Sample != "" {
		raw, err := analyzer.Sample(opts.Sample)
		if err != nil {
			return nil, err
		}
		return []input{{source: "sample:" + strings.ToLower(opts.Sample), raw: raw}}, nil
	}

	inputs := make([]input, 0, len(args))
	usedStdin := false
	for _, arg := range args {
		if arg != "-" {
			inputs = append(inputs, input{source: arg, path: arg})
			continue
		}
		if usedStdin {
			return nil, errors.New("standard input can only be read once")
		}
		usedStdin = true
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}
		inputs = append(inputs, input{source: "stdin", raw: string(data)})
	}
	return inputs, nil
}

// operatorFor returns the logged-in username. Saving requires a session;
// otherwise a missing session just leaves the operator blank.
func operatorFor(a *app.App, save bool) (string, error) {
	if save {
		session, err := a.Sessions.Require()
		if err != nil {
			return "", fmt.Errorf("--save: %w", err)
		}
		return session.Username, nil
	}
	if session, err := a.Sessions.Current(); err == nil {
		return session.Username, nil
	}
	return "", nil
}

func saveRuns(ctx context.Context, a *app.App, runs []*models.AnalysisRun) error {
	db, err := a.History()
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	for _, r := range runs {
		if err := db.SaveRun(ctx, r); err != nil {
			return fmt.Errorf("saving run %s: %w", r.ID, err)
		}
		a.Logger.Info("Saved analysis run", "id", r.ID, "source", r.Source, "findings", len(r.Findings))
	}
	return nil
}

func checkThreshold(runs []*models.AnalysisRun, failOn string) error {
	if failOn == "" {
		return nil
	}
	limit := models.SeverityRank(failOn)
	for _, r := range runs {
		for _, f := range r.Findings {
			if models.SeverityRank(f.Severity) <= limit {
				return fmt.Errorf("%w: %s in %s", ErrThresholdExceeded, f.Title, r.Source)
			}
		}
	}
	return nil
}

// follow watches path and prints findings not seen in earlier passes.
func follow(ctx context.Context, w io.Writer, a *app.App, opts *Options, path string) error {
	format, err := report.GetFormat(opts.Format, a.Logger)
	if err != nil {
		return err
	}

	operator, err := operatorFor(a, opts.Save)
	if err != nil {
		return err
	}

	ana := a.Analyzer(analyzer.WithStepDelay(0))
	log := a.Logger.With("component", "follow")

	wt, err := watcher.New(path, watcher.WithInitialRun(), watcher.WithLogger(log))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "👀 Watching %s (Ctrl+C to stop)\n", wt.Path())

	f := &follower{seen: make(map[string]bool)}
	err = wt.Run(ctx, func(ctx context.Context, content string) error {
		r, err := ana.Run(ctx, path, content, nil)
		if err != nil {
			return err
		}
		r.Findings = a.Config.ApplyPolicy(r.Findings)
		r.Operator = operator

		if opts.Save {
			if err := saveRuns(ctx, a, []*models.AnalysisRun{r}); err != nil {
				return err
			}
		}

		fresh := f.filter(r.Findings)
		if len(fresh) == 0 {
			log.Debug("No new findings", "total", len(r.Findings))
			return nil
		}

		update := *r
		update.Findings = fresh
		return renderUpdate(w, format, &update, log)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func renderUpdate(w io.Writer, format report.Format, r *models.AnalysisRun, log logger.Logger) error {
	if text, ok := format.(*report.TextFormat); ok {
		for _, f := range r.Findings {
			if err := text.RenderFinding(w, f); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
		log.Info("New findings", "count", len(r.Findings))
		return nil
	}
	return format.Render(w, r)
}

type follower struct {
	seen map[string]bool
}

// filter returns findings not reported before and remembers them. The
// diagnosis is part of the identity since it alone names the radar channel.
func (f *follower) filter(findings []models.Finding) []models.Finding {
	var fresh []models.Finding
	for _, finding := range findings {
		key := strings.Join([]string{finding.Category, finding.Title, finding.Diagnosis, finding.Evidence}, "\x00")
		if f.seen[key] {
			continue
		}
		f.seen[key] = true
		fresh = append(fresh, finding)
	}
	return fresh
}
